package lambda

import (
	"encoding/base64"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestFromAPIGateway(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:     "PUT",
		Path:           "/post/abc",
		Resource:       "/post/{id}",
		Headers:        map[string]string{"Content-Type": "application/json"},
		PathParameters: map[string]string{"id": "abc"},
		Body:           `{"title":"t"}`,
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway() failed: %v", err)
	}
	if req.Method != "PUT" || req.Resource != "/post/{id}" || req.PathParams["id"] != "abc" {
		t.Errorf("request = %+v", req)
	}
	if string(req.Body) != `{"title":"t"}` {
		t.Errorf("Body = %s", req.Body)
	}
}

func TestFromAPIGateway_Base64Body(t *testing.T) {
	event := events.APIGatewayProxyRequest{
		HTTPMethod:      "POST",
		Resource:        "/post",
		Body:            base64.StdEncoding.EncodeToString([]byte(`{"title":"t","body":"b"}`)),
		IsBase64Encoded: true,
	}

	req, err := FromAPIGateway(event)
	if err != nil {
		t.Fatalf("FromAPIGateway() failed: %v", err)
	}
	if string(req.Body) != `{"title":"t","body":"b"}` {
		t.Errorf("Body = %s", req.Body)
	}
	if req.PathParams == nil {
		t.Error("PathParams should never be nil")
	}

	event.Body = "!!not base64!!"
	if _, err := FromAPIGateway(event); err == nil {
		t.Error("FromAPIGateway() should reject an undecodable body")
	}
}

func TestResponse_ToAPIGateway(t *testing.T) {
	resp := &Response{StatusCode: 201, Body: []byte(`{"id":"1"}`)}

	out := resp.ToAPIGateway()
	if out.StatusCode != 201 || out.Body != `{"id":"1"}` {
		t.Errorf("ToAPIGateway() = %+v", out)
	}
	if out.Headers != nil {
		t.Errorf("Headers = %v, want none", out.Headers)
	}
}

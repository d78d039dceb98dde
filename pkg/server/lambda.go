package server

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"

	"posts-api/internal/handlers"
	"posts-api/pkg/lambda"
)

// APIGatewayHandler adapts the container's router to the aws-lambda-go proxy signature
func (c *Container) APIGatewayHandler() func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return func(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		req, err := lambda.FromAPIGateway(event)
		if err != nil {
			c.Logger.WithError(err).Warn("Rejected API Gateway event")
			return handlers.Respond(http.StatusBadRequest, handlers.ErrorResponse{
				Error:   "Invalid request body",
				Message: err.Error(),
			}).ToAPIGateway(), nil
		}

		return c.Router.Dispatch(ctx, req).ToAPIGateway(), nil
	}
}

package handlers

// @title Posts API
// @version 1.0
// @description CRUD operations over post records

// @host localhost:8081
// @BasePath /

// @tag.name posts
// @tag.description Post operations

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>PDF extractor API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "pdf-extractor-server", "version": "v1.0.0" },
  "components": {
    "securitySchemes": { "bearer": { "type": "http", "scheme": "bearer", "bearerFormat": "JWT" } },
    "schemas": {
      "Envelope": { "type": "object", "properties": { "success": {"type":"boolean"}, "status": {"type":"integer"}, "message": {"type":"string"}, "data": {} } }
    }
  },
  "paths": {
    "/api/v1/auth/sign-up": {
      "post": { "summary": "Create an account", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["name","email","password"],"properties":{"name":{"type":"string"},"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "201": { "description": "data.createdUser" }, "400": { "description": "missing fields or email conflict" } } }
    },
    "/api/v1/auth/sign-in": {
      "post": { "summary": "Sign in; sets the refreshToken cookie", "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["email","password"],"properties":{"email":{"type":"string"},"password":{"type":"string"}}}}}}, "responses": { "200": { "description": "data.userData, data.accessToken" }, "400": { "description": "unknown email or wrong password" } } }
    },
    "/api/v1/auth/sign-out": {
      "post": { "summary": "Clear the refresh cookie", "responses": { "200": { "description": "signed out" } } }
    },
    "/api/v1/auth/refresh-access-token": {
      "post": { "summary": "Issue a new access token from the refresh cookie", "responses": { "200": { "description": "data.newAccessToken" }, "401": { "description": "invalid refresh token" }, "403": { "description": "no refresh token" } } }
    },
    "/api/v1/pdf/upload": {
      "post": { "summary": "Upload a PDF", "security": [{"bearer": []}], "requestBody": { "content": { "multipart/form-data": { "schema": {"type":"object","required":["file","fileName"],"properties":{"file":{"type":"string","format":"binary"},"fileName":{"type":"string"}}}}}}, "responses": { "201": { "description": "data.pdfData" }, "400": { "description": "validation or duplicate name" }, "413": { "description": "file too large" }, "502": { "description": "storage failure" } } }
    },
    "/api/v1/pdf/retrieve": {
      "get": { "summary": "List PDFs", "security": [{"bearer": []}], "parameters": [ {"name":"page","in":"query","schema":{"type":"integer"}}, {"name":"limit","in":"query","schema":{"type":"integer"}}, {"name":"searchQuery","in":"query","schema":{"type":"string"}} ], "responses": { "200": { "description": "data.pdfs, data.totalPages, data.currentPage" } } }
    },
    "/api/v1/pdf/extract/{pdfId}": {
      "post": { "summary": "Extract pages into a new PDF", "security": [{"bearer": []}], "parameters": [ {"name":"pdfId","in":"path","required":true,"schema":{"type":"string"}} ], "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["pages","fileName"],"properties":{"pages":{"type":"array","items":{"type":"integer","minimum":1}},"fileName":{"type":"string"},"deleteExistingPdf":{"type":"boolean"}}}}}}, "responses": { "201": { "description": "data.newCreatedPdf" }, "400": { "description": "validation, duplicate name or page out of range" }, "404": { "description": "source not found" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "text exposition" } } } }
  }
}`

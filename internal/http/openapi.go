package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invopop/jsonschema"

	"membership-api/internal/domain"
	"membership-api/internal/service"
)

const apiVersion = "1.0.0"

// BuildOpenAPIDocument arma el documento OpenAPI 3.1 reflejando los tipos de request/response.
func BuildOpenAPIDocument() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	reflect := func(v any) *jsonschema.Schema {
		s := r.Reflect(v)
		s.Version = ""
		return s
	}

	schemas := map[string]*jsonschema.Schema{
		"AuthRequest":          reflect(&AuthRequest{}),
		"AuthResponse":         reflect(&service.AuthResult{}),
		"UpdateProfileRequest": reflect(&UpdateProfileRequest{}),
		"UserProfile":          reflect(&domain.Profile{}),
		"ErrorResponse":        reflect(&ErrorResponse{}),
	}

	bearer := []map[string][]string{{"bearer_auth": {}}}
	doc := map[string]any{
		"openapi": "3.1.0",
		"info": map[string]any{
			"title":       "membership-api",
			"version":     apiVersion,
			"description": "User accounts with JWT authentication",
		},
		"paths": map[string]any{
			"/auth/register": map[string]any{
				"post": operation("auth", "Register a new account", "AuthRequest", nil, map[int]string{
					http.StatusCreated:             "AuthResponse",
					http.StatusBadRequest:          "ErrorResponse",
					http.StatusConflict:            "ErrorResponse",
					http.StatusInternalServerError: "ErrorResponse",
				}),
			},
			"/auth/login": map[string]any{
				"post": operation("auth", "Log in with email and password", "AuthRequest", nil, map[int]string{
					http.StatusOK:                  "AuthResponse",
					http.StatusBadRequest:          "ErrorResponse",
					http.StatusUnauthorized:        "ErrorResponse",
					http.StatusInternalServerError: "ErrorResponse",
				}),
			},
			"/profile": map[string]any{
				"get": operation("profile", "Get the authenticated user's profile", "", bearer, map[int]string{
					http.StatusOK:                  "UserProfile",
					http.StatusUnauthorized:        "ErrorResponse",
					http.StatusNotFound:            "ErrorResponse",
					http.StatusInternalServerError: "ErrorResponse",
				}),
				"put": operation("profile", "Update the authenticated user's profile", "UpdateProfileRequest", bearer, map[int]string{
					http.StatusOK:                  "UserProfile",
					http.StatusBadRequest:          "ErrorResponse",
					http.StatusUnauthorized:        "ErrorResponse",
					http.StatusNotFound:            "ErrorResponse",
					http.StatusInternalServerError: "ErrorResponse",
				}),
			},
		},
		"components": map[string]any{
			"schemas": schemas,
			"securitySchemes": map[string]any{
				"bearer_auth": map[string]any{
					"type":         "http",
					"scheme":       "bearer",
					"bearerFormat": "JWT",
				},
			},
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal openapi document: %w", err)
	}
	return data, nil
}

func operation(tag, summary, requestSchema string, security []map[string][]string, responses map[int]string) map[string]any {
	op := map[string]any{
		"tags":    []string{tag},
		"summary": summary,
	}
	if requestSchema != "" {
		op["requestBody"] = map[string]any{
			"required": true,
			"content": map[string]any{
				"application/json": map[string]any{"schema": schemaRef(requestSchema)},
			},
		}
	}
	if security != nil {
		op["security"] = security
	}
	out := make(map[string]any, len(responses))
	for status, schema := range responses {
		out[fmt.Sprintf("%d", status)] = map[string]any{
			"description": http.StatusText(status),
			"content": map[string]any{
				"application/json": map[string]any{"schema": schemaRef(schema)},
			},
		}
	}
	op["responses"] = out
	return op
}

func schemaRef(name string) map[string]string {
	return map[string]string{"$ref": "#/components/schemas/" + name}
}

const swaggerUIPage = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>membership-api docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => {
      window.ui = SwaggerUIBundle({ url: "/api-docs/openapi.json", dom_id: "#swagger-ui" });
    };
  </script>
</body>
</html>`

func openAPIHandler(doc []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", doc)
	}
}

func swaggerUIHandler(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerUIPage))
}

// Package docs registers the OpenAPI spec with swaggo.
// Regenerate with `make swagger-gen` after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "replyd maintainers",
            "url": "https://github.com/your-org/replyd"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {
        "/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Produce one whole reply for a prompt",
                "parameters": [
                    {
                        "description": "prompt and sampling knobs",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.GenerateResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/load": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Load a model, replacing any loaded one",
                "parameters": [
                    {
                        "description": "model id or path plus sizing",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/types.LoadRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/types.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/types.ErrorResponse"}}
                }
            }
        },
        "/models": {
            "get": {
                "produces": ["application/json"],
                "summary": "List discovered models",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.ModelsResponse"}}
                }
            }
        },
        "/status": {
            "get": {
                "produces": ["application/json"],
                "summary": "Engine and daemon status",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/types.StatusResponse"}}
                }
            }
        },
        "/unload": {
            "post": {
                "summary": "Free the loaded model, keeping the backend alive",
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        }
    },
    "definitions": {
        "types.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "integer", "example": 400},
                "error": {"type": "string", "example": "invalid JSON body"}
            }
        },
        "types.GenerateRequest": {
            "type": "object",
            "properties": {
                "max_tokens": {"type": "integer", "example": 128},
                "prompt": {"type": "string", "example": "Write a haiku about the ocean."},
                "seed": {"type": "integer", "example": 42},
                "stop": {"type": "array", "items": {"type": "string"}},
                "temperature": {"type": "number", "example": 0.7}
            }
        },
        "types.GenerateResponse": {
            "type": "object",
            "properties": {
                "finish_reason": {"type": "string", "example": "eog"},
                "reply": {"type": "string"},
                "tokens": {"type": "integer", "example": 17}
            }
        },
        "types.LoadRequest": {
            "type": "object",
            "properties": {
                "context_capacity": {"type": "integer", "example": 2048},
                "model": {"type": "string", "example": "qwen2.5-1.5b-instruct-q4_k_m.gguf"},
                "path": {"type": "string"},
                "threads": {"type": "integer", "example": 4}
            }
        },
        "types.Model": {
            "type": "object",
            "properties": {
                "family": {"type": "string", "example": "qwen"},
                "id": {"type": "string", "example": "qwen2.5-1.5b-instruct-q4_k_m.gguf"},
                "name": {"type": "string"},
                "path": {"type": "string"},
                "quant": {"type": "string", "example": "Q4_K_M"}
            }
        },
        "types.ModelsResponse": {
            "type": "object",
            "properties": {
                "models": {"type": "array", "items": {"$ref": "#/definitions/types.Model"}}
            }
        },
        "types.StatusResponse": {
            "type": "object",
            "properties": {
                "context_capacity": {"type": "integer", "example": 2048},
                "model_path": {"type": "string"},
                "runtime_built": {"type": "boolean", "example": true},
                "server_time_unix": {"type": "integer", "example": 1700000000},
                "state": {"type": "string", "example": "loaded"},
                "threads": {"type": "integer", "example": 4},
                "uptime_seconds": {"type": "integer", "example": 3600}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "replyd API",
	Description:      "HTTP API for loading a local GGUF model and generating whole replies.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the Swagger document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/arvore": {
            "get": {
                "produces": ["application/json"],
                "summary": "Tree shape",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/service.TreeInfo"}}
                }
            }
        },
        "/api/clientes": {
            "get": {
                "produces": ["application/json"],
                "summary": "List customers",
                "parameters": [
                    {"type": "string", "description": "Case-insensitive name filter", "name": "busca", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/httpapi.customerResponse"}}}
                }
            }
        },
        "/api/estatisticas": {
            "get": {
                "produces": ["application/json"],
                "summary": "Statistics",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/stats.Snapshot"}}
                }
            }
        },
        "/api/pedidos": {
            "get": {
                "produces": ["application/json"],
                "summary": "List orders",
                "parameters": [
                    {"type": "string", "description": "em-ordem, pre-ordem or pos-ordem", "name": "ordem", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/order.Order"}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpapi.errorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "summary": "Create order",
                "parameters": [
                    {"description": "Order", "name": "order", "in": "body", "required": true, "schema": {"$ref": "#/definitions/service.CreateOrderRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/order.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpapi.errorResponse"}}
                }
            }
        },
        "/api/pedidos/{tempo}": {
            "get": {
                "produces": ["application/json"],
                "summary": "Get order",
                "parameters": [
                    {"type": "integer", "description": "Time key", "name": "tempo", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/order.Order"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpapi.errorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "summary": "Delete order",
                "parameters": [
                    {"type": "integer", "description": "Time key", "name": "tempo", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/httpapi.statusResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/httpapi.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "httpapi.customerResponse": {
            "type": "object",
            "properties": {
                "nome": {"type": "string"},
                "pedidos": {"type": "array", "items": {"$ref": "#/definitions/httpapi.orderSummary"}},
                "total_gasto": {"type": "string"}
            }
        },
        "httpapi.errorResponse": {
            "type": "object",
            "properties": {
                "campo": {"type": "string"},
                "error": {"type": "string"}
            }
        },
        "httpapi.orderSummary": {
            "type": "object",
            "properties": {
                "endereco": {"type": "string"},
                "sabor": {"type": "string"},
                "tempo": {"type": "integer"}
            }
        },
        "httpapi.statusResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"}
            }
        },
        "order.Order": {
            "type": "object",
            "properties": {
                "cliente": {"type": "string"},
                "endereco": {"type": "string"},
                "extras": {"type": "array", "items": {"type": "string"}},
                "preco": {"type": "string"},
                "sabor": {"type": "string"},
                "tempo": {"type": "integer"},
                "tipo": {"type": "string"}
            }
        },
        "service.CreateOrderRequest": {
            "type": "object",
            "required": ["endereco", "nome", "sabor", "tipo"],
            "properties": {
                "endereco": {"type": "string", "maxLength": 200},
                "extras": {"type": "array", "maxItems": 20, "items": {"type": "string"}},
                "nome": {"type": "string", "maxLength": 120},
                "sabor": {"type": "string", "maxLength": 120},
                "tipo": {"type": "string"}
            }
        },
        "service.TreeInfo": {
            "type": "object",
            "properties": {
                "altura": {"type": "integer"},
                "balanceada": {"type": "boolean"},
                "total": {"type": "integer"}
            }
        },
        "stats.Snapshot": {
            "type": "object",
            "properties": {
                "faturamento_total": {"type": "string"},
                "mais_demorado": {},
                "mais_rapido": {},
                "tempo_medio": {},
                "total_clientes": {},
                "total_pedidos": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Pizzaria API",
	Description:      "Order intake for the pizzeria: orders are kept in a binary search tree keyed by delivery time.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

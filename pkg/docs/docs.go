// Package docs registers the OpenAPI document served under /swagger.
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
        "/createOrder": {
            "post": {
                "description": "Prices the cart from the catalog and opens a gateway payment order.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Create an order",
                "parameters": [
                    {
                        "description": "Cart, customer and shipping address",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.CreateOrderRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.CreateOrderResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/gateway.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/gateway.errorResponse"}}
                }
            }
        },
        "/verifyPayment": {
            "post": {
                "description": "Checks the gateway signature and marks the order paid.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["checkout"],
                "summary": "Verify a payment",
                "parameters": [
                    {
                        "description": "Gateway payment confirmation",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/models.VerifyPaymentRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.VerifyPaymentResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/gateway.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/gateway.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/gateway.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/gateway.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "gateway.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "models.CartLine": {
            "type": "object",
            "properties": {
                "productId": {"type": "string"},
                "quantity": {"type": "integer"}
            }
        },
        "models.Customer": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "name": {"type": "string"},
                "phone": {"type": "string"}
            }
        },
        "models.ShippingAddress": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "city": {"type": "string"},
                "pincode": {"type": "string"},
                "state": {"type": "string"}
            }
        },
        "models.CreateOrderRequest": {
            "type": "object",
            "properties": {
                "customer": {"$ref": "#/definitions/models.Customer"},
                "items": {"type": "array", "items": {"$ref": "#/definitions/models.CartLine"}},
                "notes": {"type": "string"},
                "shippingAddress": {"$ref": "#/definitions/models.ShippingAddress"}
            }
        },
        "models.CreateOrderResponse": {
            "type": "object",
            "properties": {
                "amount": {"type": "integer"},
                "currency": {"type": "string"},
                "gatewayOrderId": {"type": "string"},
                "keyId": {"type": "string"},
                "orderId": {"type": "string"}
            }
        },
        "models.VerifyPaymentRequest": {
            "type": "object",
            "properties": {
                "gatewayOrderId": {"type": "string"},
                "orderId": {"type": "string"},
                "paymentId": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "models.VerifyPaymentResponse": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "orderId": {"type": "string"},
                "success": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Storefront Checkout API",
	Description:      "Order intake and payment settlement.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

// Package docs holds the Swagger metadata gin-swagger serves at /swagger.
// The teacher generated this with `swag init`; that generator isn't run
// here, so the handful of fields gin-swagger actually reads are maintained
// by hand instead.
package docs

import "github.com/swaggo/swag"

// SwaggerInfo holds exported Swagger metadata.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "vvw audio steganography API",
	Description:      "Embeds and recovers text and audio secrets in WAV carriers via LSB or auxiliary-chunk steganography, with optional AEAD encryption and Ed25519 signing.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {}
}`

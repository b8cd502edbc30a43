// Package config loads runtime configuration for the medportal client.
//
// Sources, later ones winning:
//
//  1. Built-in defaults ((*Config).LoadDefaults).
//  2. MEDPORTAL_* environment variables, with an optional .env file.
//  3. A JSON file selected with -c or -config.
//  4. Command-line flags: -a, -t, -p, -s, -i.
//
// Example file:
//
//	{
//	  "api_base_url": "https://clinic.example.com/api",
//	  "request_timeout": "15s",
//	  "auth_policy": "fail-fast",
//	  "media_backend": "http",
//	  "media_upload_url": "https://api.cloudinary.com/v1_1/demo/image/upload",
//	  "media_cloud_name": "demo",
//	  "media_upload_preset": "unsigned"
//	}
package config

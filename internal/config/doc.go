// Package config loads dremio-auth settings.
//
// Configuration is resolved in layers, later layers winning:
//
//  1. Built-in defaults (Dremio Cloud endpoints, http://localhost:8000/callback)
//  2. config.yaml in the configuration directory (default ~/.config/dremio-auth)
//  3. A dotenv file (default ./.env); variables already in the environment are kept
//  4. Environment variables
//
// # config.yaml
//
//	oauth:
//	  clientId: my-client
//	  redirectUri: http://localhost:8000/callback
//	  authorizationUrl: https://app.dremio.cloud/oauth/authorize
//	  tokenUrl: https://login.dremio.cloud/oauth/token
//	  tokenRequestEncoding: json
//	  timeout: 5m
//	  openBrowser: true
//	logging:
//	  level: info
//	  file: /tmp/dremio-auth.log
//
// # Environment
//
//	DREMIO_CLIENT_ID, DREMIO_REDIRECT_URI, DREMIO_AUTH_URL, DREMIO_TOKEN_URL,
//	DREMIO_TOKEN_REQUEST_ENCODING, DREMIO_AUTH_TIMEOUT, DREMIO_OPEN_BROWSER,
//	LOG_LEVEL, LOG_FILE
//
// Loading errors are reported as *ConfigurationError.
package config

// Package config loads the render tool's runtime configuration from CLI
// flags and environment variables with precedence: CLI flags > Environment
// variables > Defaults. It exposes strongly typed settings to the rest of
// the application. The profile document itself is input data, not tool
// configuration, and is loaded by the profile package.
package config

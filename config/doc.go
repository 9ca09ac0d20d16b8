// Package config loads registry configuration.
//
// Configuration comes from three layers: built-in defaults, an
// optional YAML file, and environment variables, each overriding the
// previous one.
package config

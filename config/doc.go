// Package config loads YAML suite files.
package config

// Package config provides the configuration for urlcount: the options a
// run is started with, their defaults and validation, and the optional
// .urlcount YAML file with per-source settings.
package config

// Package config handles application configuration for the fee estimator
// evaluation tool.
//
// Configuration is assembled from three layers, in increasing precedence:
// struct tag defaults, an optional config.yaml file, and FEEVAL_* prefixed
// environment variables. The resulting Config is validated with struct tags
// before use.
package config

// Package config loads and validates httputil client configuration files.
//
// A configuration file describes the defaults of an http.Client: connect and
// request timeouts, protocol preference, redirect policy and default
// headers. Files ending in .json are decoded as JSON, everything else as
// YAML.
//
// Basic Usage:
//
//	cfg, err := config.LoadConfig("httputil.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	client := http.NewClient(cfg.ClientOptions()...)
//
// Configuration Validation:
//
// LoadConfig rejects invalid files. ValidateConfig can also be called on a
// Config built in code and returns a slice of validation errors:
//
//	errors := config.ValidateConfig(cfg)
//	if len(errors) > 0 {
//	    for _, err := range errors {
//	        log.Printf("Validation error: %s", err)
//	    }
//	}
package config

// Package config provides configuration management for matrix-datasets.
//
// This package handles:
//   - Loading and saving settings from JSON or YAML files
//   - Default configuration values
//   - Conversion to model.PathConfig and catalog.Format for other packages
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Datasets/{format}
//	// Matrix Market and binary CSR enabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.yaml")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.DatasetsPath = "/srv/matrices/{format}"
//	err := settings.Save("/path/to/config.json")
package config

// SPDX-License-Identifier: MPL-2.0

// Package config loads run configuration from YAML files.
//
// Configuration is looked up in this order: an explicit --config path, a
// .termframe.yml in the working directory, then config.yml in the
// platform config directory ($XDG_CONFIG_HOME/termframe on Linux). Global
// settings apply to every output job; entries under outputs may override
// them per job with optional fields.
package config

// Package config loads and validates configuration structs.
//
// LoadConfig reads a YAML file and an optional .env file found in standard
// locations, overlays the process environment through Viper, unmarshals the
// result using mapstructure tags and finally runs ApplyDefaults and Validate
// when the target implements them.
//
//	var cfg rest.Config
//	err := config.LoadConfig("orders-api", &cfg, config.WithEnvPrefix("ORDERS"))
//
// ValidateStruct applies go-playground/validator tags:
//
//	type Config struct {
//	    BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
//	}
package config

package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // root config file, or a directory in check mode
	BaseDir    string // anchors relative config references; "" means the working directory

	Vars          map[string]string
	LenientSchema bool
	Check         bool
	ListVars      bool

	LogFormat string
	LogLevel  string
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.ConfigPath == "" {
		return nil, errors.New("ConfigPath is a required configuration field and cannot be empty")
	}
	if cfg.Check && cfg.ListVars {
		return nil, errors.New("check and list-vars modes cannot be combined")
	}

	return &cfg, nil
}

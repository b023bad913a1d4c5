/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/llm"
	"github.com/josephgoksu/officekit/types"
)

// GlobalAppConfig holds the global application configuration instance.
var GlobalAppConfig types.AppConfig

// configErr is reported by the first command that needs configuration.
var configErr error

// validate is a single instance of Translate, it caches struct info
var validate = validator.New()

// InitConfig reads in config file and ENV variables if set.
func InitConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()

	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName("." + config.AppName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			configErr = types.NewCLIError("cannot read config file", "check the YAML syntax of "+configPathHint(), err)
		}
	} else if viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	setDefaults()

	if err := viper.Unmarshal(&GlobalAppConfig); err != nil {
		configErr = types.NewCLIError("cannot load configuration", "", err)
		return
	}
	if err := validate.Struct(&GlobalAppConfig); err != nil && configErr == nil {
		configErr = types.NewCLIError("invalid configuration", "run 'officekit config show' to inspect the effective settings", err)
	}
}

func setDefaults() {
	viper.SetDefault("llm.provider", llm.DefaultProvider)
	viper.SetDefault("llm.timeoutSeconds", int(config.DefaultLLMTimeout.Seconds()))
	viper.SetDefault("llm.sampleTopK", config.DefaultSampleTopK)

	viper.SetDefault("azure.environment", config.DefaultEnvironment)
	viper.SetDefault("azure.envDir", config.DefaultEnvDir)
	viper.SetDefault("azure.buildDir", config.DefaultBuildDir)

	viper.SetDefault("server.addr", config.DefaultServerAddr)
	viper.SetDefault("server.allowedOrigins", []string{"https://localhost:3000"})
}

func configPathHint() string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	if cfgFile != "" {
		return cfgFile
	}
	return "." + config.AppName + ".yaml"
}

// GetConfig returns the loaded configuration or the error found while loading it.
func GetConfig() (*types.AppConfig, error) {
	if configErr != nil {
		return nil, configErr
	}
	return &GlobalAppConfig, nil
}

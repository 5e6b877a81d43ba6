package config

import (
	"github.com/spf13/viper"
	"github.com/suitegen/suitegen/pkg/constants"
)

func setDefaultConfig() {
	viper.SetDefault("Data.LogConfig.EnableConsole", true)
	viper.SetDefault("Data.LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("Data.LogConfig.ConsoleLevel", "info")
	viper.SetDefault("Data.LogConfig.EnableFile", false)
	viper.SetDefault("Data.LogConfig.FileJSONFormat", true)
	viper.SetDefault("Data.LogConfig.FileLevel", "debug")
	viper.SetDefault("Data.LogConfig.FileLocation", "./suitegen.log")
	viper.SetDefault("Data.Env", "prod")
	viper.SetDefault("Data.Verbose", false)
	viper.SetDefault("Data.OutputDir", constants.DefaultConfigDir)
	viper.SetDefault("Data.Split.TargetSuiteTime", constants.DefaultTargetSuiteTime)
	viper.SetDefault("Data.Split.MaxSubSuites", constants.DefaultMaxSubSuites)
	viper.SetDefault("Data.Split.MaxTestsPerSuite", constants.DefaultMaxTestsPerSuite)
	viper.SetDefault("Data.Split.LookbackDuration", constants.LookbackDuration)
	viper.SetDefault("Data.Timeout.ScalingFactor", constants.DefaultTimeoutScalingFactor)
	viper.SetDefault("Data.Timeout.ExecOverhead", constants.DefaultExecTimeoutOverhead)
	viper.SetDefault("Data.Timeout.IdleOverhead", constants.DefaultIdleTimeoutOverhead)
	viper.SetDefault("Data.Timeout.MinTimeout", constants.MinTaskTimeout)
}

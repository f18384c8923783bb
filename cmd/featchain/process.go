package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/featchain/featchain/chain"
	"github.com/featchain/featchain/container"
)

// stageConfig is one chain stage in the config file.
type stageConfig struct {
	Processor string                 `mapstructure:"processor"`
	Config    map[string]interface{} `mapstructure:"config"`
}

func processCommand() *cobra.Command {
	var (
		configPath string
		audioPath  string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Run a configured chain against an audio file",
		RunE: func(*cobra.Command, []string) error {
			v := viper.New()
			v.SetConfigFile(configPath)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("cannot read config: %w", err)
			}

			var stages []stageConfig
			if err := v.UnmarshalKey("chain", &stages); err != nil {
				return fmt.Errorf("cannot parse chain config: %w", err)
			}

			processors := make([]chain.Processor, 0, len(stages))
			for _, stage := range stages {
				p, err := chain.NewProcessor(stage.Processor, chain.Params(stage.Config))
				if err != nil {
					return err
				}
				processors = append(processors, p)
			}

			c, err := chain.New(processors...)
			if err != nil {
				return err
			}
			logger.WithField("chain", c.String()).Info("chain constructed")

			params := chain.Params{}
			if audioPath != "" {
				params["filename"] = audioPath
			}
			out, err := c.Process(params)
			if err != nil {
				return err
			}

			for _, entry := range c.Trail() {
				logger.WithFields(logrus.Fields{
					"id":     entry.ID,
					"config": entry.Config,
				}).Debugf("stage %s", entry.Processor)
			}

			switch result := out.(type) {
			case *container.Matrix:
				logger.WithFields(logrus.Fields{
					"rows":   result.Rows(),
					"frames": result.Length(),
				}).Info("chain produced a matrix")
				if outPath != "" {
					if err := result.Save(outPath); err != nil {
						return err
					}
					logger.WithField("path", outPath).Info("matrix saved")
				}
			case *container.Matrix3D:
				logger.WithFields(logrus.Fields{
					"rows":      result.Rows(),
					"length":    result.SequenceLength(),
					"sequences": result.Sequences(),
				}).Info("chain produced a sequence stack")
			case *container.Repository:
				logger.WithFields(logrus.Fields{
					"labels": result.Labels(),
					"items":  result.Len(),
				}).Info("chain produced a repository")
				if outPath != "" {
					if err := result.Save(outPath); err != nil {
						return err
					}
					logger.WithField("path", outPath).Info("repository saved")
				}
			default:
				logger.Infof("chain produced %T", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "featchain.yaml", "chain configuration file")
	cmd.Flags().StringVarP(&audioPath, "audio", "a", "", "audio file processed by the chain")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the resulting matrix or repository to this file")
	return cmd
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/logger"
)

const (
	RootCmdName  = "carprice"
	RootCmdShort = "Used car price prediction service"
	RootCmdLong  = `carprice serves price predictions for used cars from a pre-trained
regression model exported by the training pipeline.`

	ServeCmdName  = "serve"
	ServeCmdShort = "Start the HTTP server"
	ServeCmdLong  = `Load the model artifacts and serve the prediction form, the JSON API and
the Prometheus metrics until SIGINT or SIGTERM.`

	PredictCmdName  = "predict"
	PredictCmdShort = "Predict the price of one car"
	PredictCmdLong  = `Run the prediction pipeline once over fields given as Name=value pairs:

  carprice predict --field Make=Toyota --field Type="Land Cruiser" --field Year=2020 \
    --field Engine_Size=4.6 --field Mileage=50000`

	CheckCmdName  = "check"
	CheckCmdShort = "Validate the configured artifacts"
	CheckCmdLong  = `Load every configured artifact and dataset and report what is available.`
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   RootCmdName,
	Short: RootCmdShort,
	Long:  RootCmdLong,
}

// Execute runs the root command.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./configs/config.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	viper.BindPFlag("logging.level", RootCmd.PersistentFlags().Lookup("log-level"))

	RootCmd.AddCommand(ServeCmd, PredictCmd, CheckCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper(), cfgFile)
}

func newLogger(cfg *config.Config) logger.Logger {
	return logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format)
}

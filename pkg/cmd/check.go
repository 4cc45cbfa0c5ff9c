package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/dal"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/service"
)

var CheckCmd = &cobra.Command{
	Use:   CheckCmdName,
	Short: CheckCmdShort,
	Long:  CheckCmdLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runCheck(cmd.Context(), cfg, cmd.OutOrStdout())
	},
}

func runCheck(ctx context.Context, cfg *config.Config, out io.Writer) error {
	log := newLogger(cfg)
	defer log.Sync()

	app, err := service.Load(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	info := app.ModelInfo()
	fmt.Fprintf(out, "model:        %s (log target: %t)\n", info.ModelName, info.IsLogModel)
	fmt.Fprintf(out, "features:     %s\n", strings.Join(app.Metadata.Features, ", "))
	fmt.Fprintf(out, "metrics:      r2=%.4f rmse=%.2f mae=%.2f\n", info.R2Score, info.RMSE, info.MAE)
	fmt.Fprintf(out, "catalog:      %s\n", strings.Join(app.Values.Names(), ", "))
	fmt.Fprintf(out, "test data:    %s\n", datasetStatus(cfg.Datasets.Test, app.Test))
	fmt.Fprintf(out, "reference:    %s\n", datasetStatus(cfg.Datasets.Reference, app.Reference))
	fmt.Fprintf(out, "makes:        %d\n", len(app.MakeTypes))
	fmt.Fprintf(out, "year range:   %d-%d\n", app.MinYear, app.MaxYear)
	fmt.Fprintf(out, "cache:        %s\n", cacheStatus(cfg, app))
	return nil
}

func datasetStatus(path string, ds *dal.Dataset) string {
	if ds == nil {
		return "unavailable"
	}
	return fmt.Sprintf("%s (%d rows)", path, ds.Len())
}

func cacheStatus(cfg *config.Config, app *service.App) string {
	switch {
	case !cfg.Cache.Enabled:
		return "disabled"
	case app.Cache == nil:
		return "unreachable at " + cfg.Cache.Address
	}
	return "redis at " + cfg.Cache.Address
}

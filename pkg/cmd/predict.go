package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nekruzvatanshoev/carprice/pkg/carprice/config"
	"github.com/nekruzvatanshoev/carprice/pkg/carprice/service"
)

var predictFields []string

var PredictCmd = &cobra.Command{
	Use:   PredictCmdName,
	Short: PredictCmdShort,
	Long:  PredictCmdLong,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return runPredict(cmd.Context(), cfg, predictFields, cmd.OutOrStdout())
	},
}

func init() {
	PredictCmd.Flags().StringArrayVarP(&predictFields, "field", "f", nil, "form field as Name=value (repeatable)")
}

func runPredict(ctx context.Context, cfg *config.Config, pairs []string, out io.Writer) error {
	fields, err := parseFields(pairs)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	defer log.Sync()

	app, err := service.Load(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.Close()

	pred, err := app.Predict(ctx, fields)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Predicted price: %s (raw %d)\n", pred.Price.Formatted, pred.Price.Raw)
	return nil
}

// parseFields turns Name=value pairs into form fields. The first value of a
// repeated name wins, as it does for a submitted form.
func parseFields(pairs []string) (map[string]string, error) {
	fields := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid field %q: expected Name=value", pair)
		}
		if _, dup := fields[name]; !dup {
			fields[name] = value
		}
	}
	return fields, nil
}

package cmd

import (
	"fmt"
	"io"

	"github.com/nodewee/ocr-pipeline/pkg/config"

	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage tool path configuration",
	Long: `Manage tool path configuration settings.

Configuration is stored in a JSON file in your user configuration directory (~/.ocr-pipeline/config.json).
Set OCR_PIPELINE_HOME to use another directory.

Available commands:
  list  - List all configured tool paths
  get   - Get a specific tool path
  set   - Set a specific tool path

Examples:
  ocr-pipeline config list                                       # List all tool paths
  ocr-pipeline config get tesseract_path                         # Get Tesseract path
  ocr-pipeline config set tesseract_path /usr/local/bin/tesseract   # Set Tesseract path
  ocr-pipeline config set poppler_path /opt/homebrew/bin            # Directory holding pdftoppm
  ocr-pipeline config set tessdata_prefix /usr/share/tessdata       # Language data directory`,
}

// listConfig lists all tool path configuration settings
func listConfig(w io.Writer) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "🛠️  Tool Path Configuration")
	fmt.Fprintln(w, "===========================")

	configPath, _ := config.GetConfigFilePath()
	fmt.Fprintf(w, "📁 Config file: %s\n\n", configPath)

	fmt.Fprintf(w, "  %-16s = %s\n", config.KeyTesseractPath, getDisplayValue(cfg.TesseractPath))
	fmt.Fprintf(w, "  %-16s = %s\n", config.KeyTessdataPrefix, getDisplayValue(cfg.TessdataPrefix))
	fmt.Fprintf(w, "  %-16s = %s\n", config.KeyPopplerPath, getDisplayValue(cfg.PopplerPath))

	fmt.Fprintln(w, "\n💡 Tip: Use 'ocr-pipeline config set <key> <value>' to change tool paths")
	fmt.Fprintln(w, "💡 Note: DPI, language and engine settings come from flags or OCR_* environment variables")
	return nil
}

// getDisplayValue returns a display-friendly value for empty strings
func getDisplayValue(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

// configListCmd represents the 'config list' command
var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tool path settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return listConfig(cmd.OutOrStdout())
	},
}

// configGetCmd represents the 'config get' command
var configGetCmd = &cobra.Command{
	Use:       "get <key>",
	Short:     "Get a specific tool path value",
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.ListConfigKeys(),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := config.GetConfigValue(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], getDisplayValue(value))
		return nil
	},
}

// configSetCmd represents the 'config set' command
var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a specific tool path value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetConfigValue(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully set %s = %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
}

package main

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	setAreaID      string
	setLabel       string
	setVideoURL    string
	setVideoLabel  string
	setMinDuration int
	setInactive    bool
)

var configsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Manage gate configurations",
}

var configsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the tenant's gate configurations",
	RunE:  runConfigsList,
}

var configsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or update the config for a (tenant, area) scope",
	RunE:  runConfigsSet,
}

var configsDeleteCmd = &cobra.Command{
	Use:   "delete <config-id>",
	Short: "Delete a gate configuration by id",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigsDelete,
}

func init() {
	configsSetCmd.Flags().StringVar(&setAreaID, "area", "", "Area id (empty for the tenant-wide default)")
	configsSetCmd.Flags().StringVar(&setLabel, "label", "", "Administrative label for the config")
	configsSetCmd.Flags().StringVar(&setVideoURL, "video-url", "", "Target video URL (required)")
	configsSetCmd.Flags().StringVar(&setVideoLabel, "video-label", "", "Human-readable video title")
	configsSetCmd.Flags().IntVar(&setMinDuration, "min-duration", 0, "Minimum watch time in seconds (0 uses the server default)")
	configsSetCmd.Flags().BoolVar(&setInactive, "inactive", false, "Write the config as inactive")

	configsCmd.AddCommand(configsListCmd)
	configsCmd.AddCommand(configsSetCmd)
	configsCmd.AddCommand(configsDeleteCmd)
}

type configRow struct {
	ID          string  `json:"id"`
	TenantID    string  `json:"tenant_id"`
	AreaID      *string `json:"area_id"`
	Label       *string `json:"label"`
	VideoURL    string  `json:"video_url"`
	VideoLabel  *string `json:"video_label"`
	MinDuration int     `json:"min_duration"`
	Active      bool    `json:"active"`
}

func requireTenant() (string, error) {
	tenant := resolvedTenant()
	if tenant == "" {
		return "", fmt.Errorf("a tenant is required (use --tenant or VIEWGATE_TENANT)")
	}
	return tenant, nil
}

func runConfigsList(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}

	var configs []configRow
	err = newClient().getJSON("/api/admin/v1alpha1/configs?tenant_id="+url.QueryEscape(tenant), &configs)
	if err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(configs)
	}

	headers := []string{"ID", "Area", "Label", "Video", "Min Duration", "Active"}
	rows := make([][]string, 0, len(configs))
	for _, c := range configs {
		rows = append(rows, []string{
			c.ID,
			orDash(c.AreaID),
			orDash(c.Label),
			truncate(c.VideoURL, 50),
			strconv.Itoa(c.MinDuration),
			strconv.FormatBool(c.Active),
		})
	}
	printTable(headers, rows)
	return nil
}

func runConfigsSet(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}
	if setVideoURL == "" {
		return fmt.Errorf("--video-url is required")
	}

	body := map[string]any{
		"tenant_id": tenant,
		"video_url": setVideoURL,
		"active":    !setInactive,
	}
	if setAreaID != "" {
		body["area_id"] = setAreaID
	}
	if setLabel != "" {
		body["label"] = setLabel
	}
	if setVideoLabel != "" {
		body["video_label"] = setVideoLabel
	}
	if setMinDuration > 0 {
		body["min_duration"] = setMinDuration
	}

	var resp struct {
		Success bool      `json:"success"`
		Data    configRow `json:"data"`
	}
	if err := newClient().postJSON("/api/admin/v1alpha1/configs", body, &resp); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(resp.Data)
	}
	fmt.Printf("Config %s saved\n", resp.Data.ID)
	return nil
}

func runConfigsDelete(cmd *cobra.Command, args []string) error {
	if _, err := requireTenant(); err != nil {
		return err
	}

	var resp map[string]any
	if err := newClient().deleteJSON("/api/admin/v1alpha1/configs/"+url.PathEscape(args[0]), &resp); err != nil {
		return err
	}
	fmt.Printf("Config %s deleted\n", args[0])
	return nil
}

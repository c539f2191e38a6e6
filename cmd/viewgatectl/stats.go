package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	statsFrom string
	statsTo   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show view statistics for a tenant",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "Start date (YYYY-MM-DD, inclusive)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "End date (YYYY-MM-DD, inclusive)")
}

type statsReport struct {
	TotalViews      int `json:"total_views"`
	CompletedViews  int `json:"completed_views"`
	UniqueCustomers int `json:"unique_customers"`
	ByVideo         []struct {
		VideoURL        string  `json:"video_url"`
		VideoLabel      *string `json:"video_label"`
		Total           int     `json:"total"`
		Completed       int     `json:"completed"`
		UniqueCustomers int     `json:"unique_customers"`
	} `json:"by_video"`
	ByLocation []struct {
		AreaID    string `json:"area_id"`
		Name      string `json:"name"`
		Total     int    `json:"total"`
		Completed int    `json:"completed"`
	} `json:"by_location"`
}

func runStats(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("tenant_id", tenant)
	if statsFrom != "" {
		query.Set("from", statsFrom)
	}
	if statsTo != "" {
		query.Set("to", statsTo)
	}

	var report statsReport
	if err := newClient().getJSON("/api/admin/v1alpha1/stats?"+query.Encode(), &report); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(report)
	}

	printTable([]string{"Metric", "Value"}, [][]string{
		{"Total views", strconv.Itoa(report.TotalViews)},
		{"Completed views", strconv.Itoa(report.CompletedViews)},
		{"Unique customers", strconv.Itoa(report.UniqueCustomers)},
	})

	if len(report.ByVideo) > 0 {
		rows := make([][]string, 0, len(report.ByVideo))
		for _, v := range report.ByVideo {
			rows = append(rows, []string{
				truncate(v.VideoURL, 50),
				orDash(v.VideoLabel),
				strconv.Itoa(v.Total),
				strconv.Itoa(v.Completed),
				strconv.Itoa(v.UniqueCustomers),
			})
		}
		printTable([]string{"Video", "Label", "Views", "Completed", "Unique"}, rows)
	}

	if len(report.ByLocation) > 0 {
		rows := make([][]string, 0, len(report.ByLocation))
		for _, l := range report.ByLocation {
			rows = append(rows, []string{
				l.AreaID,
				l.Name,
				strconv.Itoa(l.Total),
				strconv.Itoa(l.Completed),
			})
		}
		printTable([]string{"Area", "Name", "Views", "Completed"}, rows)
	}

	return nil
}

package main

import (
	"net/url"

	"github.com/spf13/cobra"
)

var areasCmd = &cobra.Command{
	Use:   "areas",
	Short: "List the tenant's known WiFi areas",
	RunE:  runAreas,
}

type areaRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func runAreas(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}

	var areaList []areaRow
	err = newClient().getJSON("/api/admin/v1alpha1/areas?tenant_id="+url.QueryEscape(tenant), &areaList)
	if err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(areaList)
	}

	rows := make([][]string, 0, len(areaList))
	for _, a := range areaList {
		rows = append(rows, []string{a.ID, a.Name})
	}
	printTable([]string{"ID", "Name"}, rows)
	return nil
}

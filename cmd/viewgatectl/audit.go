package main

import (
	"net/url"
	"strconv"

	"github.com/spf13/cobra"
)

var auditLimit int

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "List the tenant's admin audit trail",
	RunE:  runAudit,
}

func init() {
	auditCmd.Flags().IntVar(&auditLimit, "limit", 0, "Maximum events to return (0 uses the server default)")
}

type auditRow struct {
	ID         string `json:"id"`
	Action     string `json:"action"`
	Resource   string `json:"resource"`
	ResourceID string `json:"resource_id"`
	Outcome    string `json:"outcome"`
	StatusCode int    `json:"status_code"`
	CreatedAt  string `json:"created_at"`
}

func runAudit(cmd *cobra.Command, args []string) error {
	tenant, err := requireTenant()
	if err != nil {
		return err
	}

	query := url.Values{}
	query.Set("tenant_id", tenant)
	if auditLimit > 0 {
		query.Set("limit", strconv.Itoa(auditLimit))
	}

	var events []auditRow
	if err := newClient().getJSON("/api/admin/v1alpha1/audit?"+query.Encode(), &events); err != nil {
		return err
	}

	if outputFmt != "table" {
		return printOutput(events)
	}

	rows := make([][]string, 0, len(events))
	for _, e := range events {
		target := e.Resource
		if e.ResourceID != "" {
			target += "/" + e.ResourceID
		}
		rows = append(rows, []string{
			e.CreatedAt,
			e.Action,
			target,
			e.Outcome,
			strconv.Itoa(e.StatusCode),
		})
	}
	printTable([]string{"Time", "Action", "Resource", "Outcome", "Status"}, rows)
	return nil
}

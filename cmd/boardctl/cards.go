package main

import (
	"encoding/json"
	"fmt"

	"ForecastBoard/internal/service"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	listPage     int
	listPageSize int
	listTag      string
	listTagID    string
	listSortBy   string
	listOrder    string
	output       string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List cards",
	Example: `  boardctl list --tag Crypto --sort liquidity
  boardctl list --page 2 --page-size 10 --order asc`,
	Args: cobra.NoArgs,
	RunE: runList,
}

var showCmd = &cobra.Command{
	Use:   "show <card-id>",
	Short: "Show one card with per-market detail",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print the tag filter table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		tags := cardService.Tags()
		if output != "text" {
			return writeStructured(cmd, tags)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderTags(tags))
		return nil
	},
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	result, err := cardService.ListCards(ctx, service.ListQuery{
		Page:     listPage,
		PageSize: listPageSize,
		Tag:      listTag,
		TagID:    listTagID,
		SortBy:   listSortBy,
		Order:    listOrder,
	})
	if err != nil {
		return err
	}
	if output != "text" {
		return writeStructured(cmd, result)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderList(result))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	detail, err := cardService.GetCardDetail(ctx, args[0])
	if err != nil {
		return err
	}
	if output != "text" {
		return writeStructured(cmd, detail)
	}
	fmt.Fprint(cmd.OutOrStdout(), renderDetail(detail))
	return nil
}

// writeStructured 按 --output 输出 json 或 yaml；yaml 由 json 转换而来，字段名与 HTTP 接口一致
func writeStructured(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch output {
	case "json":
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
		return err
	case "yaml":
		var node yaml.Node
		if err := yaml.Unmarshal(raw, &node); err != nil {
			return err
		}
		blockStyle(&node)
		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(&node)
	default:
		return fmt.Errorf("unknown output format %q (text|json|yaml)", output)
	}
}

// blockStyle 去掉 json 带来的 flow 风格与引号
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}

func init() {
	listCmd.Flags().IntVar(&listPage, "page", 1, "page number")
	listCmd.Flags().IntVar(&listPageSize, "page-size", 0, "cards per page (default from config)")
	listCmd.Flags().StringVar(&listTag, "tag", "", "tag name, e.g. Crypto")
	listCmd.Flags().StringVar(&listTagID, "tag-id", "", "raw upstream tag id (wins over --tag)")
	listCmd.Flags().StringVar(&listSortBy, "sort", "volume", "sort field: volume|liquidity")
	listCmd.Flags().StringVar(&listOrder, "order", "desc", "sort order: asc|desc")

	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "output format: text|json|yaml")
}

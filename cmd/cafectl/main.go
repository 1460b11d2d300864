package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	apiFlag string
	rootCmd = &cobra.Command{
		Use:   "cafectl",
		Short: "CLI client for the cafe service REST API",
	}
)

func main() {
	rootCmd.PersistentFlags().StringVarP(&apiFlag, "api", "a", "http://localhost:8080", "Cafe service base URL")

	// search subcommand
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search cafes near a location",
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			radius, _ := cmd.Flags().GetInt("radius")
			lat, _ := cmd.Flags().GetFloat64("lat")
			lng, _ := cmd.Flags().GetFloat64("lng")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			sortBy, _ := cmd.Flags().GetString("sort")
			rating, _ := cmd.Flags().GetFloat64("rating")
			openNow, _ := cmd.Flags().GetBool("open-now")
			return runSearch(apiFlag, searchArgs{
				query:   query,
				radius:  radius,
				lat:     lat,
				lng:     lng,
				hasGeo:  cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng"),
				tags:    tags,
				sortBy:  sortBy,
				rating:  rating,
				openNow: openNow,
			}, os.Stdout)
		},
	}
	searchCmd.Flags().StringP("query", "q", "", "Search query text")
	searchCmd.Flags().IntP("radius", "r", 0, "Search radius in meters")
	searchCmd.Flags().Float64("lat", 0, "Latitude of the search center")
	searchCmd.Flags().Float64("lng", 0, "Longitude of the search center")
	searchCmd.Flags().StringSlice("tags", nil, "Required tags (containment filter)")
	searchCmd.Flags().String("sort", "", "Sort strategy: distance or relevance")
	searchCmd.Flags().Float64("rating", 0, "Minimum rating (inclusive)")
	searchCmd.Flags().Bool("open-now", false, "Only cafes open now")
	rootCmd.AddCommand(searchCmd)

	// ping subcommand
	pingCmd := &cobra.Command{
		Use:   "ping",
		Short: "Submit a review ping for a cafe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cafeID, _ := cmd.Flags().GetString("cafe")
			rating, _ := cmd.Flags().GetFloat64("rating")
			tags, _ := cmd.Flags().GetStringSlice("tags")
			if cafeID == "" {
				return fmt.Errorf("--cafe required")
			}
			return runPing(apiFlag, cafeID, rating, tags, os.Stdout)
		},
	}
	pingCmd.Flags().StringP("cafe", "c", "", "Cafe ID (required)")
	pingCmd.Flags().Float64("rating", 0, "Rating in [0,5]")
	pingCmd.Flags().StringSlice("tags", nil, "Tags to attach")
	_ = pingCmd.MarkFlagRequired("cafe")
	rootCmd.AddCommand(pingCmd)

	// health subcommand
	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Check service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHealth(apiFlag, os.Stdout)
		},
	}
	rootCmd.AddCommand(healthCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"campus-match/internal/app"
	"campus-match/internal/config"
	"campus-match/internal/delivery/http/dto"
	"campus-match/internal/domain/matching"
	"campus-match/internal/usecase"

	"github.com/olekukonko/tablewriter"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	rankJSON  bool
	rankLimit int
)

var rankCmd = &cobra.Command{
	Use:   "rank <file|->",
	Short: "Rank candidates from a JSON request file",
	Long:  "Reads a request shaped like the POST /api/v1/match body and prints the ranked matches.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := readRankRequest(args[0], cmd.InOrStdin())
		if err != nil {
			return err
		}
		if rankLimit > 0 {
			req.Limit = rankLimit
		}

		reg, err := app.LoadSchemes(config.MatchConfig{SchemesFile: schemesFile}, log)
		if err != nil {
			return err
		}
		uc := usecase.NewMatchingUsecase(reg, nil, log, config.MatchConfig{})

		results, err := uc.Rank(cmd.Context(), toRankRequest(req))
		if err != nil {
			return eris.Wrap(err, "rank")
		}

		out := cmd.OutOrStdout()
		if rankJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(dto.NewRankResponse(req.Scheme, results))
		}
		return writeResults(out, results)
	},
}

func init() {
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "print JSON instead of a table")
	rankCmd.Flags().IntVar(&rankLimit, "limit", 0, "override the request limit")
	rootCmd.AddCommand(rankCmd)
}

func readRankRequest(path string, stdin io.Reader) (dto.RankRequest, error) {
	var (
		b   []byte
		err error
	)
	if path == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(path)
	}
	if err != nil {
		return dto.RankRequest{}, eris.Wrapf(err, "read %s", path)
	}

	var req dto.RankRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return dto.RankRequest{}, eris.Wrapf(err, "decode %s", path)
	}
	req.Scheme = strings.TrimSpace(req.Scheme)
	if req.Scheme == "" {
		return dto.RankRequest{}, eris.New("request has no scheme")
	}
	return req, nil
}

func toRankRequest(req dto.RankRequest) usecase.RankRequest {
	in := usecase.RankRequest{
		Scheme:     req.Scheme,
		Self:       req.Self.ToMatching(),
		Priorities: req.Priorities,
		Limit:      req.Limit,
	}
	for _, c := range req.Candidates {
		in.Candidates = append(in.Candidates, c.ToMatching())
	}
	for _, f := range req.Filters {
		in.Filters = append(in.Filters, matching.Filter{Field: f.Field, Value: f.Value})
	}
	return in
}

func writeResults(w io.Writer, results []matching.Result) error {
	table := tablewriter.NewWriter(w)
	table.Header("Rank", "Candidate", "Score", "Matched Fields", "Issues")
	for i, r := range results {
		issues := make([]string, 0, len(r.Issues))
		for _, is := range r.Issues {
			issues = append(issues, is.Field)
		}
		if err := table.Append([]string{
			fmt.Sprintf("%d", i+1),
			r.CandidateID,
			fmt.Sprintf("%.2f", r.Score),
			strings.Join(r.MatchedFields, ", "),
			strings.Join(issues, ", "),
		}); err != nil {
			return eris.Wrap(err, "render row")
		}
	}
	return table.Render()
}

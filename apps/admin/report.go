package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/chuo/core/academic"
)

var reportKinds = []string{"attendance", "status", "marks", "subjects", "grades", "library"}

type reportOptions struct {
	kind   string
	format string
	filter academic.Filter
}

func (cli *commandLine) report(ctx context.Context, w io.Writer, opts reportOptions) error {
	var (
		data interface{}
		err  error
	)
	switch opts.kind {
	case "attendance":
		data, err = cli.acadSvc.MonthlyAttendance(ctx, opts.filter)
	case "status":
		data, err = cli.acadSvc.StatusDistribution(ctx, opts.filter)
	case "marks":
		data, err = cli.acadSvc.MarksDistribution(ctx, opts.filter)
	case "subjects":
		data, err = cli.acadSvc.SubjectPerformance(ctx)
	case "grades":
		data, err = cli.acadSvc.GradeGroups(ctx, opts.filter)
	case "library":
		data, err = cli.acadSvc.LibraryAvailability(ctx)
	default:
		return fmt.Errorf("unknown report %q", opts.kind)
	}
	if err != nil {
		return errors.Wrapf(err, "computing %s report", opts.kind)
	}
	return render(w, opts.format, data)
}

// render writes data as JSON or YAML; YAML keys follow the JSON field names.
func render(w io.Writer, format string, data interface{}) error {
	switch format {
	case "", "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(data), "encoding report")
	case "yaml", "yml":
		raw, err := json.Marshal(data)
		if err != nil {
			return errors.Wrap(err, "encoding report")
		}
		var out interface{}
		if err = yaml.Unmarshal(raw, &out); err != nil {
			return errors.Wrap(err, "decoding report")
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(out); err != nil {
			return errors.Wrap(err, "encoding report")
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

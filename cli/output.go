package main

import (
	"fmt"
	"io"

	"encoding/json"

	"github.com/gosuri/uitable"

	"github.com/AcalephStorage/circleci-cli/model"
)

const (
	formatLog   = "log"
	formatJSON  = "json"
	formatTable = "table"
)

type renderFunc func(w io.Writer, result interface{}) error

func rendererFor(format string) (renderFunc, error) {
	switch format {
	case formatLog, "":
		return func(io.Writer, interface{}) error { return nil }, nil
	case formatJSON:
		return renderJSON, nil
	case formatTable:
		return renderTable, nil
	}
	return nil, fmt.Errorf("Unknown format `%s`, expected one of log, json, table", format)
}

func renderJSON(w io.Writer, result interface{}) error {
	if raw, ok := result.(json.RawMessage); ok && len(raw) == 0 {
		return nil
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func renderTable(w io.Writer, result interface{}) error {
	table := uitable.New()
	table.MaxColWidth = 80

	switch r := result.(type) {
	case []model.Project:
		table.AddRow("USERNAME", "REPO", "FOLLOWING", "BRANCHES", "VCS URL")
		for _, p := range r {
			table.AddRow(p.Username, p.RepoName, p.Following, len(p.Branches), p.VCSURL)
		}
	case *model.PipelineList:
		table.AddRow("NUMBER", "STATE", "BRANCH", "REVISION", "TRIGGER", "ACTOR", "CREATED")
		for _, p := range r.Items {
			table.AddRow(p.Number, p.State, orDash(p.VCS.Branch), shortRevision(p.VCS.Revision), p.Trigger.Type, p.Trigger.Actor.Login, p.CreatedAt)
		}
	case []model.Artifact:
		table.AddRow("NODE", "PATH", "URL")
		for _, a := range r {
			table.AddRow(a.NodeIndex, a.PrettyPath, a.URL)
		}
	case *model.PipelineLight:
		table.AddRow("ID", "NUMBER", "STATE", "CREATED")
		table.AddRow(r.ID, r.Number, r.State, r.CreatedAt)
	case json.RawMessage:
		user, err := model.DecodeUser(r)
		if err != nil {
			_, err = fmt.Fprintln(w, string(r))
			return err
		}
		table.AddRow("LOGIN", "ID")
		table.AddRow(user.Login, user.ID)
	default:
		return fmt.Errorf("no table layout for %T", result)
	}

	_, err := fmt.Fprintln(w, table)
	return err
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return orDash(rev)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

package main

import (
	"github.com/gosuri/uitable"
	"github.com/urfave/cli"

	"github.com/AcalephStorage/circleci-cli/task"
)

var taskUsage = map[task.Task]string{
	task.GetAllPipelines:    "list the pipelines of the project (needs project)",
	task.GetLatestArtifacts: "list the artifacts of the latest build of a branch (needs project, branch)",
	task.GetMe:              "show the user the token belongs to",
	task.ListAll:            "list all followed projects",
	task.Trigger:            "trigger a pipeline, optionally for a branch or tag (needs project)",
}

func taskHelp() string {
	table := uitable.New()
	table.Separator = "  "
	for _, name := range task.Names() {
		t, _ := task.Parse(name)
		table.AddRow("  "+name, taskUsage[t])
	}
	return table.String() + "\n"
}

// Override templates
func init() {
	cli.AppHelpTemplate = `Usage:
  {{.HelpName}} {{if .VisibleFlags}}[options]{{end}} {{.ArgsUsage}}

{{.Usage}}

Tasks:
{{.Description}}{{if .VisibleFlags}}
Options:
   {{range .VisibleFlags}}{{.}}
   {{end}}{{end}}
`
}

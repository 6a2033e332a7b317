package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli"

	apiReq "github.com/AcalephStorage/circleci-cli/cli/request"
	"github.com/AcalephStorage/circleci-cli/config"
	"github.com/AcalephStorage/circleci-cli/task"
	"github.com/AcalephStorage/circleci-cli/util"
)

const logCloserKey = "logCloser"

var mainLog = util.NewContextLogger("main")

func main() {
	app := newApp()
	err := runApp(app, os.Args)
	if err != nil {
		mainLog.InFunc("main").WithError(err).Error("circleci-cli failed")
	}
	closeLogging(app)
	if err != nil {
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()

	app.Name = "circleci-cli"
	app.Usage = "query and trigger CircleCI pipelines"
	app.ArgsUsage = "<task>"
	app.Description = taskHelp()
	app.HideVersion = true
	app.Metadata = map[string]interface{}{}
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "conf, c",
			Usage: "Specify an alternate configuration file (default: ~/" + config.FileName + ")",
		},
		cli.StringFlag{
			Name:  "log-config",
			Value: "./logging.yml",
			Usage: "logging configuration file, defaults apply when it does not exist",
		},
		cli.StringFlag{
			Name:  "project, p",
			Usage: "project to run the task for, overrides the config file",
		},
		cli.StringFlag{
			Name:  "tag, t",
			Usage: "tag to build, overrides the config file",
		},
		cli.StringFlag{
			Name:  "branch, b",
			Usage: "branch to query or build, overrides the config file",
		},
		cli.StringFlag{
			Name:  "format, f",
			Value: formatLog,
			Usage: "output format: log, json or table",
		},
	}
	app.Before = setupLogging
	app.Action = runTask
	return app
}

// runApp runs app with every flag moved in front of the task name, since
// flag parsing stops at the first positional argument.
func runApp(app *cli.App, args []string) error {
	return app.Run(flagsFirst(app, args))
}

func flagsFirst(app *cli.App, args []string) []string {
	if len(args) == 0 {
		return args
	}

	takesValue := map[string]bool{}
	for _, f := range app.Flags {
		if sf, ok := f.(cli.StringFlag); ok {
			for _, name := range strings.Split(sf.Name, ",") {
				takesValue[strings.TrimSpace(name)] = true
			}
		}
	}

	flags := []string{}
	positional := []string{}
	terminated := false
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positional = append(positional, rest[i+1:]...)
			terminated = true
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if !strings.Contains(name, "=") && takesValue[name] && i+1 < len(rest) {
			flags = append(flags, rest[i+1])
			i++
		}
	}

	reordered := append([]string{args[0]}, flags...)
	if terminated {
		reordered = append(reordered, "--")
	}
	return append(reordered, positional...)
}

func setupLogging(c *cli.Context) error {
	closer, err := util.ConfigureLogging(c.String("log-config"))
	if err != nil {
		return err
	}
	c.App.Metadata[logCloserKey] = closer
	return nil
}

func closeLogging(app *cli.App) {
	if closer, ok := app.Metadata[logCloserKey].(io.Closer); ok {
		closer.Close()
	}
}

// ACTIONS

func runTask(c *cli.Context) error {
	log := mainLog.InFunc("runTask")

	if c.NArg() == 0 {
		cli.ShowAppHelp(c)
		return errors.New("Provide a task name")
	}

	if c.NArg() > 1 {
		return fmt.Errorf("Unexpected arguments after task: %s", strings.Join(c.Args().Tail(), " "))
	}

	t, err := task.Parse(c.Args().First())
	if err != nil {
		return err
	}

	render, err := rendererFor(c.String("format"))
	if err != nil {
		return err
	}

	path := c.String("conf")
	if path == "" {
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	merged := config.Merge(cfg, config.Args{
		Project: c.String("project"),
		Tag:     c.String("tag"),
		Branch:  c.String("branch"),
	})

	client := apiReq.NewClientForHost(merged.HostURL(), merged.Token)
	log.Debugf("running task %s", t)

	result, err := task.NewDispatcher(client, merged).Dispatch(t)
	if err != nil {
		return err
	}
	return render(c.App.Writer, result)
}

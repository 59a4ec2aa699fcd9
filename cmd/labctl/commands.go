package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"cloudlab-go/internal/app"
	"cloudlab-go/internal/compute"
	"cloudlab-go/internal/mlmodel"
	"cloudlab-go/internal/pipeline"
	"cloudlab-go/internal/sheet"
	"cloudlab-go/internal/storage"
	"cloudlab-go/internal/types"
)

type globalOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Enable debug logging"`
}

// cli carries what every subcommand needs. The App is built on first use so --help
// works without AWS credentials.
type cli struct {
	ctx  context.Context
	out  io.Writer
	opts globalOptions
	load func() (*app.App, error)
	app  *app.App
}

func (c *cli) App() (*app.App, error) {
	if c.app != nil {
		return c.app, nil
	}
	a, err := c.load()
	if err != nil {
		return nil, err
	}
	if c.opts.Verbose {
		a.Log.Logger.SetLevel(logrus.DebugLevel)
	}
	c.app = a
	return a, nil
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func run(ctx context.Context, args []string, out io.Writer, load func() (*app.App, error)) error {
	c := &cli{ctx: ctx, out: out, load: load}
	parser := flags.NewParser(&c.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "labctl"

	commands := []struct {
		name, short string
		data        any
	}{
		{"instances", "List running EC2 instances", &instancesCmd{cli: c}},
		{"buckets", "List S3 buckets", &bucketsCmd{cli: c}},
		{"inventory", "Export instances and buckets to a spreadsheet", &inventoryCmd{cli: c}},
		{"register-model", "Create a SageMaker model from a YAML spec", &registerModelCmd{cli: c}},
		{"transcribe", "Start a transcription job for one object", &transcribeCmd{cli: c}},
		{"ingest-sheet", "Start transcription jobs for the objects listed in a spreadsheet", &ingestSheetCmd{cli: c}},
	}
	for _, cmd := range commands {
		if _, err := parser.AddCommand(cmd.name, cmd.short, "", cmd.data); err != nil {
			return err
		}
	}
	_, err := parser.ParseArgs(args)
	return err
}

type instancesCmd struct {
	cli  *cli
	IDs  bool `long:"ids" description:"Print one instance ID per line"`
	JSON bool `long:"json" description:"Print instance details as JSON"`
}

func (cmd *instancesCmd) Execute([]string) error {
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	instances, err := a.Inventory.RunningInstances(cmd.cli.ctx)
	if err != nil {
		return err
	}
	switch {
	case cmd.JSON:
		return cmd.cli.printJSON(instances)
	case cmd.IDs:
		for _, id := range compute.IDs(instances) {
			fmt.Fprintln(cmd.cli.out, id)
		}
		return nil
	}
	_, err = fmt.Fprintf(cmd.cli.out, "Running Instance ID List: %v\n", compute.IDs(instances))
	return err
}

type bucketsCmd struct {
	cli  *cli
	JSON bool `long:"json" description:"Print bucket details as JSON"`
}

func (cmd *bucketsCmd) Execute([]string) error {
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	buckets, err := a.Storage.ListBuckets(cmd.cli.ctx)
	if err != nil {
		return err
	}
	if cmd.JSON {
		return cmd.cli.printJSON(buckets)
	}
	_, err = fmt.Fprintln(cmd.cli.out, storage.BucketNames(buckets))
	return err
}

type inventoryCmd struct {
	cli *cli
	Out string `short:"o" long:"out" default:"inventory.xlsx" description:"Output workbook path"`
}

func (cmd *inventoryCmd) Execute([]string) error {
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	instances, err := a.Inventory.RunningInstances(cmd.cli.ctx)
	if err != nil {
		return err
	}
	buckets, err := a.Storage.ListBuckets(cmd.cli.ctx)
	if err != nil {
		return err
	}
	if err := sheet.WriteInventory(cmd.Out, instances, buckets); err != nil {
		return err
	}
	a.Log.WithFields(logrus.Fields{
		"path":      cmd.Out,
		"instances": len(instances),
		"buckets":   len(buckets),
	}).Info("inventory written")
	return nil
}

type registerModelCmd struct {
	cli  *cli
	Spec string `short:"f" long:"spec" required:"true" description:"Model spec YAML file"`
}

func (cmd *registerModelCmd) Execute([]string) error {
	spec, err := mlmodel.LoadSpec(cmd.Spec)
	if err != nil {
		return err
	}
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	arn, err := a.Models.Register(cmd.cli.ctx, spec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.cli.out, arn)
	return err
}

type transcribeCmd struct {
	cli    *cli
	Bucket string `long:"bucket" required:"true" description:"Bucket holding the audio object"`
	Key    string `long:"key" required:"true" description:"Object key of the audio file"`
	Wait   bool   `long:"wait" description:"Wait for the job and store the transcript in TRANSCRIPT_BUCKET"`
}

func (cmd *transcribeCmd) Execute([]string) error {
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	var finisher *pipeline.Complete
	if cmd.Wait {
		if finisher, err = a.Complete(); err != nil {
			return err
		}
	}

	job, err := a.Ingest().Start(cmd.cli.ctx, types.ObjectRef{Bucket: cmd.Bucket, Key: cmd.Key})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.cli.out, "started %s (%s)\n", job.Name, job.Status)
	if !cmd.Wait {
		return nil
	}

	done, err := a.Transcription.Wait(cmd.cli.ctx, job.Name, a.Config.WaitMaxElapsed)
	if err != nil {
		return err
	}
	if done.Status != types.JobCompleted {
		return fmt.Errorf("%w: %s is %s: %s", types.ErrJobNotCompleted, done.Name, done.Status, done.FailureReason)
	}
	art, err := finisher.Finish(cmd.cli.ctx, job.Name)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.cli.out, "stored %s (%d bytes)\n", art.URI, art.Bytes)
	return err
}

type ingestSheetCmd struct {
	cli    *cli
	File   string `short:"f" long:"file" required:"true" description:"Workbook with bucket/key columns"`
	Bucket string `long:"bucket" description:"Bucket for rows that leave it empty"`
}

func (cmd *ingestSheetCmd) Execute([]string) error {
	refs, err := sheet.LoadObjects(cmd.File, cmd.Bucket)
	if err != nil {
		return err
	}
	a, err := cmd.cli.App()
	if err != nil {
		return err
	}
	jobs, err := a.Ingest().StartAll(cmd.cli.ctx, refs)
	for _, j := range jobs {
		fmt.Fprintf(cmd.cli.out, "started %s\n", j.Name)
	}
	return err
}

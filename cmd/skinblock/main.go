package main

import (
	"io"
	"log"
	"os"

	"github.com/urfave/cli/v2"

	skinblock "github.com/seutix/SkinBlockConverter"
)

const defaultConfig = "skinblock.yaml"

func options(c *cli.Context) (skinblock.Options, error) {
	opts := skinblock.DefaultOptions()

	if file := c.String("config"); file != "" {
		var err error
		if opts, err = skinblock.ReadOptions(file); err != nil {
			return opts, err
		}
	}

	if c.IsSet("blocks") {
		opts.BlocksDir = c.String("blocks")
	}
	if c.IsSet("tile-size") {
		opts.TileSize = c.Int("tile-size")
	}
	if c.IsSet("strategy") {
		opts.Strategy = c.String("strategy")
	}
	if c.IsSet("index") {
		opts.IndexFile = c.String("index")
	}

	return opts, nil
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(io.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func newConverter(c *cli.Context, distinct bool) (*skinblock.Converter, error) {
	opts, err := options(c)
	if err != nil {
		return nil, err
	}
	opts.DistinctCapeBlocks = opts.DistinctCapeBlocks || distinct

	return skinblock.New(opts, newLogger(c))
}

// destination returns the second positional argument, or derives
// <source-stem>_pixelart.png when it is absent.
func destination(c *cli.Context) string {
	if c.NArg() > 1 {
		return c.Args().Get(1)
	}
	return skinblock.OutputPath(c.Args().First())
}

func main() {
	app := cli.NewApp()

	app.Name = "skinblock"
	app.Usage = "Minecraft skin and cape to block pixel-art converter"
	app.Version = "1.0.0"

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			EnvVars: []string{"SKINBLOCK_CONFIG"},
			Usage:   "path to YAML options file",
		},
		&cli.StringFlag{
			Name:    "blocks",
			Aliases: []string{"b"},
			EnvVars: []string{"SKINBLOCK_BLOCKS"},
			Usage:   "directory of block textures",
		},
		&cli.IntFlag{
			Name:  "tile-size",
			Usage: "output tile edge length per source pixel",
		},
		&cli.StringFlag{
			Name:    "strategy",
			Aliases: []string{"s"},
			Usage:   "representative color strategy: mean, quantize, dominant",
		},
		&cli.StringFlag{
			Name:  "index",
			Usage: "path to sqlite color index database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:      "skin",
			Usage:     "Convert a 64x64 or legacy 64x32 skin",
			ArgsUsage: "FILE [OUTPUT]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				conv, err := newConverter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer conv.Close()

				if err := conv.ConvertSkin(c.Args().First(), destination(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "cape",
			Usage:     "Convert a 64x32 cape sheet or 22x17 cape",
			ArgsUsage: "FILE [OUTPUT]",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "distinct",
					Usage: "use a different block for every distinct color",
				},
			},
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				conv, err := newConverter(c, c.Bool("distinct"))
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer conv.Close()

				if err := conv.ConvertCape(c.Args().First(), destination(c)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "batch",
			Usage:     "Convert every skin and cape found under a directory",
			ArgsUsage: "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				conv, err := newConverter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer conv.Close()

				if err := conv.Batch(c.Args().First()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "qr",
			Usage:     "Render a QR code for TEXT as a block mosaic",
			ArgsUsage: "TEXT OUTPUT",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					cli.ShowCommandHelpAndExit(c, c.Command.Name, 1)
				}

				conv, err := newConverter(c, false)
				if err != nil {
					return cli.Exit(err, 1)
				}
				defer conv.Close()

				if err := conv.ConvertQR(c.Args().First(), c.Args().Get(1)); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "init",
			Usage:     "Write a default options file",
			ArgsUsage: "[FILE]",
			Action: func(c *cli.Context) error {
				file := defaultConfig
				if c.NArg() > 0 {
					file = c.Args().First()
				}

				if err := skinblock.WriteOptions(file, skinblock.DefaultOptions()); err != nil {
					return cli.Exit(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

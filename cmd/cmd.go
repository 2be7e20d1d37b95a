// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

// setupCommand handles setup operations for database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize database, run migrations and scaffold config",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// searchCommand resolves a track query against the cache and providers.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "search",
		Aliases: []string{"resolve"},
		Usage:   "Resolve tracks from local cache, augmenting from providers",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "query",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:  "artist",
				Usage: "Artist hint to narrow matches",
			},
			&cli.StringFlag{
				Name:  "kind",
				Usage: "Query kind (track, artist, album)",
				Value: "track",
			},
			&cli.IntFlag{
				Name:    "min-results",
				Aliases: []string{"n"},
				Usage:   "Local-result threshold before providers are consulted",
			},
			&cli.BoolFlag{
				Name:  "local-only",
				Usage: "Serve local cache results only, no provider calls",
			},
			&cli.IntFlag{
				Name:  "timeout",
				Usage: "Resolution timeout in seconds (0 uses the configured default)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.StringFlag{
				Name:    "export",
				Aliases: []string{"o"},
				Usage:   "Write results to CSV with this base filename",
			},
		},
		Action: r.Search,
	}
}

// lyricsCommand resolves lyrics for a track through the provider chain.
func lyricsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lyrics",
		Usage: "Fetch lyrics for a track, cached text first",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			configFlag(),
			&cli.StringFlag{
				Name:     "artist",
				Aliases:  []string{"a"},
				Usage:    "Track artist",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "id",
				Usage: "External track ID (YouTube Music video ID)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Lyrics,
	}
}

// genresCommand classifies track metadata against the genre taxonomy.
func genresCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "genres",
		Usage: "Classify track metadata into genres",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "title",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "artist",
				Aliases: []string{"a"},
				Usage:   "Track artist",
			},
			&cli.StringFlag{
				Name:  "album",
				Usage: "Album title",
			},
			&cli.StringSliceFlag{
				Name:  "tag",
				Usage: "Additional metadata tags (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Genres,
	}
}

// cacheCommand handles local track cache operations
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and manage the local track cache",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached tracks",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "source",
						Usage: "Filter by source (youtube, spotify, musicbrainz)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of tracks to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "delete",
				Usage: "Soft-delete a cached track by ID",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags:  []cli.Flag{configFlag()},
				Action: r.CacheDelete,
			},
		},
	}
}

// Command ytdl downloads YouTube videos and their subtitles with yt-dlp.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"shortsmaker/config"
	"shortsmaker/downloads"
)

func main() {
	var outputDir string
	flag.StringVar(&outputDir, "o", config.DownloadDir, "Directory where the downloaded files will be saved")
	flag.StringVar(&outputDir, "output-dir", config.DownloadDir, "Directory where the downloaded files will be saved")
	dryRun := flag.Bool("dry-run", false, "Fetch metadata without downloading the media files")
	subLangs := flag.String("sub-langs", "all", "Comma-separated subtitle language codes ('all' grabs every track)")
	subFormat := flag.String("sub-format", "best", "Preferred subtitle format (passed to yt-dlp --sub-format)")
	noSubs := flag.Bool("no-subs", false, "Disable subtitle downloads")
	noAutoSubs := flag.Bool("no-auto-subs", false, "Do not download automatically generated subtitles")
	flag.Parse()

	urls := flag.Args()
	if len(urls) == 0 {
		fmt.Fprintln(os.Stderr, "ytdl: at least one URL must be provided")
		flag.Usage()
		os.Exit(2)
	}

	opts := downloads.DefaultOptions()
	opts.OutputDir = outputDir
	opts.SkipDownload = *dryRun
	opts.DownloadSubs = !*noSubs
	opts.AutoSubs = !*noAutoSubs
	opts.SubLangs = downloads.ParseSubLangs(*subLangs)
	opts.SubFormat = *subFormat

	files, err := downloads.NewDownloader().Download(context.Background(), urls, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Download failed: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No files were downloaded.")
		os.Exit(1)
	}

	action := "Downloaded"
	if *dryRun {
		action = "Planned downloads"
	}
	fmt.Printf("%s:\n", action)
	for _, path := range files {
		fmt.Printf("  %s\n", path)
	}
}

//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2024 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

// cmfgraph-convert compiles a CMF schema and converts instance documents
// into write statements on stdout. It plays the orchestrator's role for
// development use: it owns the file I/O the engine itself never does.
package main

import (
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/weaviate/cmfgraph/usecases/convert"
	"github.com/weaviate/cmfgraph/usecases/mapping"
)

type options struct {
	CMF     string `long:"cmf" description:"path to the CMF schema document" required:"true"`
	Batch   string `long:"batch" description:"batch identifier scoping node ids" default:"dev"`
	Verbose bool   `short:"v" long:"verbose" description:"debug logging"`

	Args struct {
		Documents []string `positional-arg-name:"document" required:"1"`
	} `positional-args:"true"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if opts.Verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	cmfContent, err := os.ReadFile(opts.CMF)
	if err != nil {
		logger.WithError(err).Fatal("read CMF schema")
	}

	spec, err := mapping.NewCompiler(logger).CompileBytes(cmfContent)
	if err != nil {
		logger.WithError(err).Fatal("compile mapping specification")
	}
	logger.WithFields(logrus.Fields{
		"schemaID":     spec.SchemaID,
		"objects":      len(spec.Objects),
		"associations": len(spec.Associations),
	}).Info("mapping specification compiled")

	converter := convert.NewConverter(spec, logger)

	for _, path := range opts.Args.Documents {
		content, err := os.ReadFile(path)
		if err != nil {
			logger.WithError(err).WithField("document", path).Error("read document")
			continue
		}

		var res *convert.Result
		if strings.HasSuffix(path, ".json") {
			res, err = converter.ConvertJSON(content, path, opts.Batch)
		} else {
			res, err = converter.ConvertXML(content, path, opts.Batch)
		}
		if err != nil {
			logger.WithError(err).WithField("document", path).Error("convert document")
			continue
		}

		for _, w := range res.Warnings {
			logger.WithField("document", path).Warn(w.String())
		}
		logger.WithFields(logrus.Fields{
			"document": path,
			"nodes":    res.NodeCount,
			"edges":    res.EdgeCount,
		}).Info("document converted")

		for _, stmt := range res.Statements {
			fmt.Println(stmt.String())
		}
	}
}

// Copyright 2024 The JustHTML Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command htmlcat parses an HTML document from a file, URL, or stdin and
// emits one of: its extracted links, a Markdown rendering, or the
// results of a CSS selector query.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/justhtml/html5"
	"github.com/justhtml/html5/cssselect"
	"github.com/justhtml/html5/fetch"
	"github.com/justhtml/html5/mdconvert"
)

type config struct {
	url              string
	selector         string
	markdown         bool
	links            bool
	collectErrors    bool
	strict           bool
	scriptingEnabled bool
	iframeSrcdoc     bool
	xmlCoercion      bool
	jsonLog          bool
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.WithField("err", err).Fatal("htmlcat failed")
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var cfg config
	flags := pflag.NewFlagSet("htmlcat", pflag.ContinueOnError)
	flags.StringVar(&cfg.url, "fetch", "", "fetch and parse this URL instead of reading stdin")
	flags.StringVar(&cfg.selector, "select", "", "print the outer text of every element matching this CSS selector")
	flags.BoolVar(&cfg.markdown, "markdown", false, "render the document as Markdown")
	flags.BoolVar(&cfg.links, "links", false, "print every href found on an <a> element")
	flags.BoolVar(&cfg.collectErrors, "collect-errors", false, "log parse errors instead of ignoring them")
	flags.BoolVar(&cfg.strict, "strict", false, "abort parsing at the first parse error")
	flags.BoolVar(&cfg.scriptingEnabled, "scripting", false, "parse as though scripting were enabled")
	flags.BoolVar(&cfg.iframeSrcdoc, "iframe-srcdoc", false, "parse as an iframe srcdoc document")
	flags.BoolVar(&cfg.xmlCoercion, "xml-coercion", false, "coerce element and attribute names to be XML-legal")
	flags.BoolVar(&cfg.jsonLog, "json-log", false, "emit structured logs as JSON instead of text")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if cfg.jsonLog {
		log.SetFormatter(&log.JSONFormatter{})
	}

	var errs []html.ParseError
	opts := html.Options{
		CollectErrors:    cfg.collectErrors,
		Strict:           cfg.strict,
		ScriptingEnabled: cfg.scriptingEnabled,
		IframeSrcdoc:     cfg.iframeSrcdoc,
		XMLCoercion:      cfg.xmlCoercion,
	}
	if cfg.collectErrors {
		opts.Errors = &errs
	}

	var doc *html.Node
	var err error
	var byteCount int
	if cfg.url != "" {
		client := fetch.NewClient()
		body, ferr := client.Get(context.Background(), cfg.url)
		if ferr != nil {
			return ferr
		}
		byteCount = len(body)
		doc, err = html.ParseBytes(body, opts)
	} else {
		body, rerr := io.ReadAll(stdin)
		if rerr != nil {
			return rerr
		}
		byteCount = len(body)
		doc, err = html.ParseBytes(body, opts)
	}
	if err != nil {
		return fmt.Errorf("htmlcat: parse: %w", err)
	}

	log.WithFields(log.Fields{
		"url":    cfg.url,
		"bytes":  byteCount,
		"errors": len(errs),
	}).Debug("parsed document")

	for _, e := range errs {
		log.WithField("offset", e.Offset).Warn(string(e.Code))
	}

	switch {
	case cfg.markdown:
		out, err := mdconvert.ConvertString(doc)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, out)
		return err
	case cfg.selector != "":
		nodes, err := cssselect.QueryAll(doc, cfg.selector)
		if err != nil {
			return err
		}
		for _, n := range nodes {
			fmt.Fprintln(stdout, n.TextContent())
		}
		return nil
	case cfg.links:
		anchors, err := cssselect.QueryAll(doc, "a[href]")
		if err != nil {
			return err
		}
		for _, a := range anchors {
			href, _ := a.Attribute("href")
			fmt.Fprintln(stdout, href)
		}
		return nil
	default:
		return html.Render(stdout, doc)
	}
}

// Copyright (c) Blocks Authors.
// Licensed under the MIT License.

/*
Package main provides the blocks command line tool.

# Overview

cmd/blocks inspects plugin registries built from Lua script sources.
It loads the sources named by a YAML configuration file, or an ad-hoc
file or directory given on the command line, and reports on the
resulting registry: the registered plugins, their category labels, and
single-plugin detail.

# Capabilities

  - Subcommands: list, categories, get, version
  - Configuration: YAML file plus BLOCKS_* environment overrides
  - Structured logging (zap) on stderr, table output on stdout
  - Optional Prometheus metric registration via the metrics config
  - Build injection: Version, BuildTime, GitCommit set through ldflags
*/
package main

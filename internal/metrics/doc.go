// Copyright (c) Blocks Authors.
// Licensed under the MIT License.

/*
Package metrics provides Prometheus instrumentation for the plugin
registry.

# Overview

The package registers its metrics through promauto under a
caller-chosen namespace, so several registries can be instrumented in
one process without label collisions. All record methods are safe on a
nil *Collector: an uninstrumented registry carries a nil collector and
pays one nil check per operation.

# Core types

  - Collector: holds the counter, gauge, and histogram vectors and
    records registry activity into them.

# Metrics

  - registrations_total{status}: registration attempts (ok, duplicate, invalid)
  - plugins_registered, categories_defined: current index sizes
  - lookups_total{result}: name lookups (hit, miss, disabled)
  - filters_total: category filter queries
  - module_loads_total{status}, module_load_duration_seconds: module loads
*/
package metrics

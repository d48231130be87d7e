// Package config loads gridstorm settings.
//
// Settings come from three sources, later ones winning:
//
//  1. Built-in defaults (Defaults)
//  2. A TOML or YAML file
//  3. GRIDSTORM_* environment variables
//
// Keys are dotted paths. The environment variable for a key is the key in
// upper case with dots replaced by underscores and the GRIDSTORM_ prefix:
//
//	history.max_entries          GRIDSTORM_HISTORY_MAX_ENTRIES
//	tablemap.cache_ttl           GRIDSTORM_TABLEMAP_CACHE_TTL
//	tablemap.cleanup_interval    GRIDSTORM_TABLEMAP_CLEANUP_INTERVAL
//	lua.call_limit               GRIDSTORM_LUA_CALL_LIMIT
//	lua.timeout                  GRIDSTORM_LUA_TIMEOUT
//	dispatcher.recover_panics    GRIDSTORM_DISPATCHER_RECOVER_PANICS
//	dispatcher.max_repeat_count  GRIDSTORM_DISPATCHER_MAX_REPEAT_COUNT
//	dispatcher.timeout           GRIDSTORM_DISPATCHER_TIMEOUT
//	dispatcher.metrics           GRIDSTORM_DISPATCHER_METRICS
//	dispatcher.audit             GRIDSTORM_DISPATCHER_AUDIT
//	dispatcher.performance       GRIDSTORM_DISPATCHER_PERFORMANCE
//	dispatcher.slow_threshold    GRIDSTORM_DISPATCHER_SLOW_THRESHOLD
//	dispatcher.sample_rate       GRIDSTORM_DISPATCHER_SAMPLE_RATE
//	output.format                GRIDSTORM_OUTPUT_FORMAT
//
// Durations use Go syntax ("250ms", "5m").
//
// # Usage
//
//	cfg, err := config.Load("gridstorm.toml")
//	if err != nil {
//	    return err
//	}
//	cfg.Apply()
//
//	eng := engine.New(doc, cfg.EngineOptions()...)
//	sys := dispatcher.NewSystem(cfg.SystemConfig())
//	sys.SetEngine(eng)
//	runner := lua.NewRunner(sys, cfg.LuaOptions()...)
package config

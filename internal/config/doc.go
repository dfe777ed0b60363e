// Package config provides configuration parsing for vdiff.
//
// The configuration is stored in vdiff.json or vdiff.toml. Every field
// has a default, so a missing file is not an error for Load.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": "localhost:7070",
//	    "rootTag": "body",
//	    "history": 256,
//	    "subscriberBuffer": 64,
//	    "releaseHandles": true
//	  },
//	  "snapshot": {
//	    "backend": "redis",
//	    "prefix": "vdiff/",
//	    "redis": {"addr": "localhost:6379", "ttl": "24h"}
//	  },
//	  "log": {"level": "debug", "format": "json"}
//	}
//
// The TOML form uses snake_case keys:
//
//	[server]
//	addr = "0.0.0.0:7070"
//	release_handles = true
//
//	[snapshot]
//	backend = "s3"
//
//	[snapshot.s3]
//	bucket = "vdiff-snapshots"
//	region = "eu-west-1"
//
// VDIFF_ADDR and VDIFF_LOG_LEVEL override the file (see ApplyEnv).
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cfg.ApplyEnv(os.Getenv)
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config

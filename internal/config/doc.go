// Package config provides configuration parsing for the vtree CLI and
// mirror server.
//
// The configuration is stored in vtree.json. Every field is optional.
//
// # Configuration File Structure
//
//	{
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  },
//	  "serve": {
//	    "addr": "localhost:7070",
//	    "rootTag": "main",
//	    "writeTimeout": "10s",
//	    "buffer": 256
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "namespace": "vtree"
//	  },
//	  "trace": {
//	    "tracerName": "vtree"
//	  }
//	}
//
// The VTREE_ADDR environment variable overrides serve.addr.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Addr:", cfg.Serve.Addr)
package config

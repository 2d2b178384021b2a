// Package config provides configuration parsing for Waymark projects.
//
// The configuration is stored in waymark.json at the project root.
// This package handles loading, saving, and validating configuration.
//
// # Configuration File Structure
//
//	{
//	  "name": "my-app",
//	  "paths": {
//	    "routes": "app/routes"
//	  },
//	  "static": {
//	    "dir": "public",
//	    "prefix": "/"
//	  },
//	  "dev": {
//	    "port": 3000,
//	    "host": "localhost",
//	    "openBrowser": false,
//	    "watch": ["app", "public"],
//	    "hotReload": true
//	  },
//	  "manifest": {
//	    "rewrites": {
//	      "beforeFiles": [],
//	      "afterFiles": [],
//	      "fallback": []
//	    }
//	  },
//	  "export": {
//	    "output": "dist"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Port:", cfg.Dev.Port)
package config

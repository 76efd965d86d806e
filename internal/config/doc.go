// Package config provides the editor settings used by the document engine.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← MAPEDIT_SECTION_SETTING
//	├─────────────────────────────┤
//	│  2. Settings File (JSON)    │
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load("mapedit.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc := engine.New(engine.WithConfig(cfg))
//
// # File Format
//
//	{
//	  "defaults": {
//	    "floorHeight": 0,
//	    "ceilingHeight": 128,
//	    "lightLevel": 176,
//	    "thing": 2001,
//	    "wallTexture": "GRAY1",
//	    "floorTexture": "FLAT1",
//	    "ceilingTexture": "FLAT1"
//	  },
//	  "history": { "maxUndo": 0 },
//	  "recent": { "size": 16 },
//	  "logging": { "verbosity": 0 }
//	}
package config

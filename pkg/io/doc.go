// Package io provides JSON import and export for lineage graphs.
//
// # JSON Format
//
// The format has two top-level arrays:
//
//	{
//	  "nodes": [
//	    {"id": "Orders", "row": 0, "meta": {"kind": "model", "model": "[s].[orders]"}},
//	    {"id": "Returns", "row": 1, "meta": {"kind": "model", "model": "[s].[returns]"}}
//	  ],
//	  "edges": [
//	    {"from": "Orders", "to": "Returns", "meta": {"relation_type": "left_join"}}
//	  ]
//	}
//
// Node and edge metadata use the keys set by lineage.ToDAG. Exported graphs
// can be read back with [ReadJSON] and rendered again, which lets lineage be
// post-processed by other tools without the original data source file.
package io

// Package docs renders and stores the generated markdown pages.
//
// Pages are produced from three markdown templates by plain placeholder
// substitution:
//
//   - data_source.md: {<yaml_header>} and {<LineageGraph>}
//   - event.md: {<yaml_header>} and {<UsageChart>}
//   - usage_chart.md: {{labels}}, {{title}} and {{data}}
//
// Default templates are embedded. A project can override any of them by
// placing a file with the same name in its templates directory.
//
// [Store] writes pages to <docs>/<type>/<category>/<name>.md, creating
// directories as needed.
package docs

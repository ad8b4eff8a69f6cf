// Package seed loads the demo dataset the console starts with: the
// organization directory, member accounts, the feature catalog and the
// per-organization feature matrix. The default dataset is embedded; an
// alternative YAML file can be supplied through configuration.
package seed

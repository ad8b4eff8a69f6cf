// Package features manages the feature catalog and the per-organization
// enablement matrix. Whether a feature can be toggled for an organization
// depends on the organization's subscription plan.
package features

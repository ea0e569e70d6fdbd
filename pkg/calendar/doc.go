// Package calendar builds month grids for calendar list views.
//
// A month is shown as whole weeks starting on a configurable weekday
// (0 is Monday, 6 is Sunday). Events that span several days are laid out per
// week with a start slot and a width so templates can draw them as bars;
// single-day events are listed on their day.
package calendar

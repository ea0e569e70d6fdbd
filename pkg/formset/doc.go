// Package formset binds, validates and saves sets of repeated forms submitted
// in one request.
//
// Every formset carries a management form: hidden inputs named
// "<prefix>-TOTAL_FORMS", "<prefix>-INITIAL_FORMS", "<prefix>-MIN_NUM_FORMS"
// and "<prefix>-MAX_NUM_FORMS". Form fields are named
// "<prefix>-<index>-<field>". Forms below INITIAL_FORMS edit existing records
// and name the record they edit in "<prefix>-<index>-<pk>"; the rest are
// extra forms and are ignored unless changed.
//
// InlineGroup ties several formsets to a parent record so that the parent
// and its children are validated together and saved in one transaction.
package formset

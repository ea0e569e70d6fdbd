// Package views serves list, calendar, formset and inline formset views over
// HTTP. A view reads its definition from viewconfig, its records from a
// store.Store and writes its context through a render.Renderer.
//
// List views apply, in order: search, query-parameter filters, sorting,
// counting and pagination. The sort state is exposed as headers carrying
// toggle links, so templates never rebuild query strings themselves.
package views

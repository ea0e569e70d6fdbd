// Package paginate selects page sizes from a "limit" query parameter and
// computes page offsets for list views.
//
// A view declares the page sizes it accepts:
//
//	limits := paginate.Limits{
//		Default: 20,
//		Valid: []paginate.Limit{
//			{Value: "10"},
//			{Value: "20", Label: "a little more"},
//			{Value: paginate.All, Label: "everything"},
//		},
//	}
//	size := limits.Resolve(r.URL.Query(), total)
//
// Unknown or malformed limits fall back to the default.
package paginate

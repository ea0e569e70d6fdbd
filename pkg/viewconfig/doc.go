// Package viewconfig loads list, calendar and formset view definitions from
// JSON or YAML documents and derives sort and search settings from OpenAPI
// schemas.
//
// A document holds a map of views keyed by name:
//
//	views:
//	  products:
//	    table: products
//	    columns:
//	      - name: name
//	        label: Name
//	    sort:
//	      aliases:
//	        - {name: name, alias: by_name}
//	    search:
//	      fields: [{field: name}, {field: sku, lookup: istartswith}]
//	    limits:
//	      default: 20
//	      valid: [{value: "10"}, {value: "20"}, {value: all}]
package viewconfig

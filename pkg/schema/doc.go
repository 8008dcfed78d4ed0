// Package schema describes the field definitions a select field renders from.
// A Bridge answers, per field name, the declared value type, the allowed
// values and the required flag. Array fields follow the `<name>.$` convention
// for their item definition so allowed values can live on the item, the same
// way OpenAPI `items.enum` does.
package schema

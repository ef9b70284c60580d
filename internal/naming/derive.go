package naming

import "strings"

// ToOneFieldName derives the field that references a single instance of
// typeName: "Customer" becomes "customer"
func ToOneFieldName(typeName string) string {
	return Decapitalize(simpleTypeName(typeName))
}

// ToManyFieldName derives the collection field for typeName: "OrderLine"
// becomes "orderLines" and "Person" becomes "people"
func ToManyFieldName(typeName string) string {
	return PluralizeIdentifier(ToOneFieldName(typeName))
}

// ColumnName derives the default column for a field: "totalCents" becomes
// "total_cents"
func ColumnName(fieldName string) string {
	return ToSnakeCase(fieldName)
}

// JoinColumnName derives the foreign-key column for a to-one field
func JoinColumnName(fieldName string) string {
	return ToSnakeCase(fieldName) + "_id"
}

// TableName derives the default table for an entity: "OrderLine" becomes
// "order_line"
func TableName(entityName string) string {
	return ToSnakeCase(entityName)
}

// SequenceName derives the database sequence backing an entity's id
func SequenceName(entityName string) string {
	return ToSnakeCase(entityName) + "_seq"
}

func simpleTypeName(typeName string) string {
	if idx := strings.IndexByte(typeName, '<'); idx >= 0 {
		typeName = typeName[:idx]
	}
	if idx := strings.LastIndexByte(typeName, '.'); idx >= 0 {
		typeName = typeName[idx+1:]
	}
	return strings.TrimSpace(typeName)
}

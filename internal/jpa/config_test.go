package jpa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coreerrors "github.com/syntaxpresso/core/internal/errors"
)

var jakarta = buildContext{persistence: JakartaPersistence, entityName: "Order"}

func TestBasicFieldValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BasicFieldConfig
		wantErr string
	}{
		{name: "plain", cfg: BasicFieldConfig{FieldName: "title", Type: "String", Length: 80}},
		{name: "decimal", cfg: BasicFieldConfig{FieldName: "price", Type: "BigDecimal", Precision: 10, Scale: 2}},
		{name: "zoned", cfg: BasicFieldConfig{FieldName: "at", Type: "OffsetDateTime", TimeZoneStorage: "normalize"}},
		{name: "lob", cfg: BasicFieldConfig{FieldName: "body", Type: "String", Lob: true}},
		{name: "unknown type", cfg: BasicFieldConfig{FieldName: "x", Type: "Strin"}, wantErr: `did you mean "String"`},
		{name: "length on number", cfg: BasicFieldConfig{FieldName: "x", Type: "Integer", Length: 3}, wantErr: "does not apply to field type Integer"},
		{name: "precision on string", cfg: BasicFieldConfig{FieldName: "x", Type: "String", Precision: 3}, wantErr: "does not apply"},
		{name: "scale above precision", cfg: BasicFieldConfig{FieldName: "x", Type: "BigDecimal", Precision: 2, Scale: 4}, wantErr: "must not exceed precision"},
		{name: "negative length", cfg: BasicFieldConfig{FieldName: "x", Type: "String", Length: -1}, wantErr: "must not be negative"},
		{name: "temporal on local date", cfg: BasicFieldConfig{FieldName: "x", Type: "LocalDate", Temporal: TemporalDate}, wantErr: "does not apply"},
		{name: "bad temporal", cfg: BasicFieldConfig{FieldName: "x", Type: "Date", Temporal: "DAET"}, wantErr: `did you mean "DATE"`},
		{name: "lob on int", cfg: BasicFieldConfig{FieldName: "x", Type: "int", Lob: true}, wantErr: "does not apply"},
		{name: "bad name", cfg: BasicFieldConfig{FieldName: "1x", Type: "int"}, wantErr: "field_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, coreerrors.ErrorTypeValidation, coreerrors.KindOf(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestBasicFieldText(t *testing.T) {
	tests := []struct {
		name    string
		cfg     BasicFieldConfig
		lines   []string
		imports []ImportRef
	}{
		{
			name:  "mandatory unique string",
			cfg:   BasicFieldConfig{FieldName: "email", Type: "String", Mandatory: true, Unique: true, Length: 120},
			lines: []string{`@Column(name = "email", nullable = false, unique = true, length = 120)`, "private String email;"},
			imports: []ImportRef{
				{Package: JakartaPersistence, Name: "Column"},
			},
		},
		{
			name:  "legacy date defaults to timestamp",
			cfg:   BasicFieldConfig{FieldName: "createdOn", Type: "Date"},
			lines: []string{"@Temporal(TemporalType.TIMESTAMP)", `@Column(name = "created_on")`, "private Date createdOn;"},
			imports: []ImportRef{
				{Package: "java.util", Name: "Date"},
				{Package: JakartaPersistence, Name: "Temporal"},
				{Package: JakartaPersistence, Name: "TemporalType"},
				{Package: JakartaPersistence, Name: "Column"},
			},
		},
		{
			name:  "zoned with hibernate storage",
			cfg:   BasicFieldConfig{FieldName: "shippedAt", Type: "ZonedDateTime", TimeZoneStorage: TimeZoneColumn},
			lines: []string{"@TimeZoneStorage(TimeZoneStorageType.COLUMN)", `@Column(name = "shipped_at")`, "private ZonedDateTime shippedAt;"},
			imports: []ImportRef{
				{Package: "java.time", Name: "ZonedDateTime"},
				{Package: HibernateAnnotations, Name: "TimeZoneStorage"},
				{Package: HibernateAnnotations, Name: "TimeZoneStorageType"},
				{Package: JakartaPersistence, Name: "Column"},
			},
		},
		{
			name:  "lob with explicit column",
			cfg:   BasicFieldConfig{FieldName: "payload", Type: "byte[]", Lob: true, ColumnName: "raw_payload"},
			lines: []string{"@Lob", `@Column(name = "raw_payload")`, "private byte[] payload;"},
			imports: []ImportRef{
				{Package: JakartaPersistence, Name: "Lob"},
				{Package: JakartaPersistence, Name: "Column"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			require.NoError(t, cfg.Validate())
			text := cfg.build(jakarta)
			assert.Equal(t, tt.lines, text.lines)
			assert.Equal(t, tt.imports, text.imports.All())
		})
	}
}

func TestEnumField(t *testing.T) {
	cfg := EnumFieldConfig{FieldName: "status", EnumType: "OrderStatus", EnumPackage: "com.shop.order.model", Storage: "ordinal", Mandatory: true}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, EnumOrdinal, cfg.Storage)

	text := cfg.build(jakarta)
	assert.Equal(t, []string{
		"@Enumerated(EnumType.ORDINAL)",
		`@Column(name = "status", nullable = false)`,
		"private OrderStatus status;",
	}, text.lines)
	assert.Equal(t, ImportRef{Package: "com.shop.order.model", Name: "OrderStatus"}, text.imports.All()[0])

	bad := EnumFieldConfig{FieldName: "status", EnumType: "OrderStatus", Storage: EnumOrdinal, Length: 10}
	require.Error(t, bad.Validate())

	lower := EnumFieldConfig{FieldName: "status", EnumType: "orderStatus"}
	require.Error(t, lower.Validate())
}

func TestIdFieldDefaults(t *testing.T) {
	tests := []struct {
		name       string
		cfg        IdFieldConfig
		generation GenerationType
		wantErr    string
	}{
		{name: "defaults", cfg: IdFieldConfig{}, generation: GenerationIdentity},
		{name: "uuid", cfg: IdFieldConfig{Type: "UUID"}, generation: GenerationUUID},
		{name: "natural string key", cfg: IdFieldConfig{Type: "String"}, generation: GenerationNone},
		{name: "explicit auto", cfg: IdFieldConfig{Generation: "auto"}, generation: GenerationAuto},
		{name: "not an id type", cfg: IdFieldConfig{Type: "Boolean"}, wantErr: "not a valid identifier type"},
		{name: "identity on string", cfg: IdFieldConfig{Type: "String", Generation: GenerationIdentity}, wantErr: "requires a numeric id"},
		{name: "uuid on long", cfg: IdFieldConfig{Generation: GenerationUUID}, wantErr: "requires a UUID or String id"},
		{name: "sequence settings without sequence", cfg: IdFieldConfig{SequenceName: "s"}, wantErr: "require SEQUENCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, DefaultIdFieldName, cfg.FieldName)
			assert.Equal(t, tt.generation, cfg.Generation)
		})
	}
}

func TestIdFieldText(t *testing.T) {
	uuid := IdFieldConfig{Type: "UUID"}
	require.NoError(t, uuid.Validate())
	text := uuid.build(jakarta)
	assert.Equal(t, []string{
		"@Id",
		"@GeneratedValue(strategy = GenerationType.UUID)",
		`@Column(name = "id", nullable = false)`,
		"private UUID id;",
	}, text.lines)
	assert.Equal(t, ImportRef{Package: "java.util", Name: "UUID"}, text.imports.All()[0])

	natural := IdFieldConfig{FieldName: "code", Type: "String"}
	require.NoError(t, natural.Validate())
	assert.Equal(t, []string{"@Id", `@Column(name = "code", nullable = false)`, "private String code;"}, natural.build(jakarta).lines)

	seq := IdFieldConfig{Generation: GenerationSequence, SequenceName: "orders_id_seq", AllocationSize: 1}
	require.NoError(t, seq.Validate())
	assert.Equal(t, DefaultInitialValue, seq.InitialValue)
	assert.Contains(t, seq.build(jakarta).lines,
		`@SequenceGenerator(name = "orders_id_seq", sequenceName = "orders_id_seq", initialValue = 1, allocationSize = 1)`)
}

func TestAssociationValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     AssociationFieldConfig
		wantErr string
	}{
		{name: "many to one", cfg: AssociationFieldConfig{FieldName: "customer", Kind: "manytoone", TargetType: "Customer"}},
		{name: "one to many", cfg: AssociationFieldConfig{FieldName: "orders", Kind: OneToMany, TargetType: "Order", MappedBy: "customer"}},
		{name: "missing kind", cfg: AssociationFieldConfig{FieldName: "customer", TargetType: "Customer"}, wantErr: "kind"},
		{name: "inverse many to one", cfg: AssociationFieldConfig{FieldName: "customer", Kind: ManyToOne, TargetType: "Customer", MappedBy: "orders"}, wantErr: "always owns"},
		{name: "owning one to many", cfg: AssociationFieldConfig{FieldName: "orders", Kind: OneToMany, TargetType: "Order"}, wantErr: "must be mapped by"},
		{name: "mandatory collection", cfg: AssociationFieldConfig{FieldName: "orders", Kind: OneToMany, TargetType: "Order", MappedBy: "customer", Mandatory: true}, wantErr: "collections"},
		{name: "unknown collection", cfg: AssociationFieldConfig{FieldName: "orders", Kind: OneToMany, TargetType: "Order", MappedBy: "customer", CollectionType: "Lsit"}, wantErr: `did you mean "List"`},
		{name: "collection on to-one", cfg: AssociationFieldConfig{FieldName: "customer", Kind: OneToOne, TargetType: "Customer", CollectionType: "Set"}, wantErr: "only applies to one-to-many"},
		{name: "join column on inverse", cfg: AssociationFieldConfig{FieldName: "profile", Kind: OneToOne, TargetType: "Profile", MappedBy: "user", JoinColumn: "x"}, wantErr: "no join column"},
		{name: "bad cascade", cfg: AssociationFieldConfig{FieldName: "customer", Kind: ManyToOne, TargetType: "Customer", Cascades: []CascadeType{"PERSTIS"}}, wantErr: `did you mean "PERSIST"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestAssociationText(t *testing.T) {
	inverse := AssociationFieldConfig{
		FieldName:      "orders",
		Kind:           OneToMany,
		TargetType:     "Order",
		TargetPackage:  "com.shop.order",
		MappedBy:       "customer",
		Cascades:       []CascadeType{CascadePersist, CascadeMerge, CascadePersist},
		OrphanRemoval:  true,
		CollectionType: "Set",
	}
	require.NoError(t, inverse.Validate())
	text := inverse.build(jakarta)
	assert.Equal(t, []string{
		`@OneToMany(mappedBy = "customer", cascade = {CascadeType.PERSIST, CascadeType.MERGE}, orphanRemoval = true)`,
		"private Set<Order> orders = new HashSet<>();",
	}, text.lines)
	assert.Equal(t, []ImportRef{
		{Package: "com.shop.order", Name: "Order"},
		{Package: JakartaPersistence, Name: "OneToMany"},
		{Package: JakartaPersistence, Name: "CascadeType"},
		{Package: "java.util", Name: "Set"},
		{Package: "java.util", Name: "HashSet"},
	}, text.imports.All())

	oneToOne := AssociationFieldConfig{FieldName: "billingAddress", Kind: OneToOne, TargetType: "Address", Cascades: []CascadeType{CascadeMerge, CascadeAll}}
	require.NoError(t, oneToOne.Validate())
	assert.Equal(t, []string{
		"@OneToOne(cascade = CascadeType.ALL)",
		`@JoinColumn(name = "billing_address_id", unique = true)`,
		"private Address billingAddress;",
	}, oneToOne.build(jakarta).lines)
}

func TestProcessedImports(t *testing.T) {
	var p ProcessedImports
	p.Add("java.util", "List")
	p.Add("java.lang", "String")
	p.Add("", "Local")
	p.Add("java.util", "List")
	p.Add("com.shop", "Customer")
	p.SetEntityClass("com.shop", "Customer")
	p.Add("com.shop", "Customer")

	assert.Equal(t, []ImportRef{
		{Package: "com.shop", Name: "Customer"},
		{Package: "java.util", Name: "List"},
	}, p.All())

	present := func(ref ImportRef) bool { return ref.Name == "List" }
	assert.Empty(t, p.Without("com.shop", present))
	assert.Equal(t, []ImportRef{{Package: "com.shop", Name: "Customer"}}, p.Without("com.other", present))
	assert.Equal(t, "import java.util.List;", ImportRef{Package: "java.util", Name: "List"}.Statement())
}

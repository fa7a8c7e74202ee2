package extract

import (
	"testing"

	"github.com/mvp-joe/project-atlas/internal/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for ParseDto:
// - An optional field with a validator keeps the validator and drops "?"
// - readonly and definite-assignment fields are recognized
// - Consecutive validators attach in order
// - A non-field statement resets pending validators
// - Multiple classes in one file do not nest
// - Lines before the first class are ignored
// - A file without classes yields no classes

func TestParseDto_OptionalFieldWithValidator(t *testing.T) {
	t.Parallel()

	meta := ParseDto(source.NewFile("a.dto.ts", `export class UpdateCustomerDto {
  @IsOptional()
  name?: string;
}`))

	require.Len(t, meta.Classes, 1)
	require.Len(t, meta.Classes[0].Properties, 1)
	assert.Equal(t, DtoPropertyMeta{
		Name:           "name",
		TypeAnnotation: "string",
		Decorators:     []string{"@IsOptional()"},
	}, meta.Classes[0].Properties[0])
}

func TestParseDto_MultipleClasses(t *testing.T) {
	t.Parallel()

	meta := ParseDto(source.NewFile("api/src/appointments/dto/check-availability.dto.ts", `import { IsString } from 'class-validator';
@IsString()
orphan: string;

export class CheckAvailabilityDto {
  @IsString()
  @IsNotEmpty()
  readonly staffId: string;

  @IsDateString()
  // the slot start
  start: string;

  end!: Date | null;
}

export class AvailabilityResultDto {
  available: boolean;
}
`))

	require.Len(t, meta.Classes, 2)

	first := meta.Classes[0]
	assert.Equal(t, "CheckAvailabilityDto", first.Name)
	require.Len(t, first.Properties, 3)
	assert.Equal(t, "staffId", first.Properties[0].Name)
	assert.Equal(t, []string{"@IsString()", "@IsNotEmpty()"}, first.Properties[0].Decorators)
	assert.Equal(t, "start", first.Properties[1].Name)
	assert.Empty(t, first.Properties[1].Decorators)
	assert.Equal(t, "end", first.Properties[2].Name)
	assert.Equal(t, "Date | null", first.Properties[2].TypeAnnotation)

	second := meta.Classes[1]
	assert.Equal(t, "AvailabilityResultDto", second.Name)
	require.Len(t, second.Properties, 1)
	assert.Equal(t, "available", second.Properties[0].Name)
	assert.NotNil(t, second.Properties[0].Decorators)
}

func TestParseDto_NoClasses(t *testing.T) {
	t.Parallel()

	meta := ParseDto(source.NewFile("types.dto.ts", "export type X = { a: string };\n"))

	assert.Empty(t, meta.Classes)
}

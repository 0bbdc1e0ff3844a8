package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"

	"github.com/voidrpg/void/pkg/config"
	"github.com/voidrpg/void/pkg/game"
)

func main() {
	configReflector := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := configReflector.Reflect(&config.Config{})
	schema.Title = "V.O.I.D. Configuration"
	schema.Description = "Schema for ~/.void/config.yml."
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling config schema: %v", err)
	}
	if err := os.WriteFile("void-config.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing config schema file: %v", err)
	}
	log.Printf("Successfully generated config schema at void-config.schema.json")

	saveReflector := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
	}

	saveSchema := saveReflector.Reflect(&game.Session{})
	saveSchema.Title = "V.O.I.D. Save Slot"
	saveSchema.Description = "Schema for the persisted session record in ~/.void/savegame.json."
	saveSchema.Required = nil

	saveData, err := json.MarshalIndent(saveSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling save schema: %v", err)
	}
	if err := os.WriteFile("void-save.schema.json", saveData, 0644); err != nil {
		log.Fatalf("Error writing save schema file: %v", err)
	}
	log.Printf("Successfully generated save schema at void-save.schema.json")
}

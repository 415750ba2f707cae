package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveMenuOption(t *testing.T) {
	assert.Equal(t, RowServices, ResolveMenuOption("menu_servicos"))
	assert.Equal(t, RowServices, ResolveMenuOption("2"))
	assert.Equal(t, RowInstagram, ResolveMenuOption("6"))
	assert.Equal(t, "", ResolveMenuOption("7"))
	assert.Equal(t, "", ResolveMenuOption("quero cortar o cabelo"))
	assert.Equal(t, "", ResolveMenuOption("12"))
}

func TestIsGreeting(t *testing.T) {
	assert.True(t, IsGreeting("oi"))
	assert.True(t, IsGreeting("Bom dia!"))
	assert.True(t, IsGreeting("boa noite, tudo bem?"))
	assert.False(t, IsGreeting("oiteiro"))
	assert.False(t, IsGreeting("quanto custa o corte?"))
}

func TestIsMenuRequest(t *testing.T) {
	assert.True(t, IsMenuRequest("menu"))
	assert.True(t, IsMenuRequest("Opções"))
	assert.False(t, IsMenuRequest("cardápio"))
}

func TestIsHandoffRequest(t *testing.T) {
	assert.True(t, IsHandoffRequest("quero falar com alguém"))
	assert.True(t, IsHandoffRequest("chama o Luiz"))
	assert.False(t, IsHandoffRequest("qual o endereço?"))
}

package model

import (
	"math/big"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAmount_Nem(t *testing.T) {
	require.Equal(t, Amount(5_000_000), AmountFromNem(5))
	require.Equal(t, uint64(5), Amount(5_999_999).Nem())
}

func TestHeight_Sub(t *testing.T) {
	require.Equal(t, uint64(10), Height(20).Sub(10))
	require.Equal(t, uint64(0), Height(10).Sub(20))
}

func TestNamespaceID_Levels(t *testing.T) {
	id := NamespaceID("alice.vouchers.gold")

	require.Equal(t, []string{"alice", "vouchers", "gold"}, id.Parts())
	require.Equal(t, 2, id.Level())
	require.False(t, id.IsRoot())
	require.Equal(t, NamespaceID("alice"), id.Root())

	parent, ok := id.Parent()
	require.True(t, ok)
	require.Equal(t, NamespaceID("alice.vouchers"), parent)

	_, ok = NamespaceID("alice").Parent()
	require.False(t, ok)

	require.Equal(t, NamespaceID("bob"), NamespaceID("").Child("bob"))
	require.Equal(t, NamespaceID("bob.x"), NamespaceID("bob").Child("x"))
	require.Nil(t, NamespaceID("").Parts())
}

func TestNamespaceEntry_IsActive(t *testing.T) {
	entry := NamespaceEntry{Height: 10, Expiry: 20}

	require.False(t, entry.IsActive(9))
	require.True(t, entry.IsActive(10))
	require.True(t, entry.IsActive(19))
	require.False(t, entry.IsActive(20))
}

func TestMosaicID_Parse(t *testing.T) {
	id, err := ParseMosaicID("nem:xem")
	require.NoError(t, err)
	require.True(t, id.IsXem())
	require.Equal(t, "nem:xem", id.String())

	_, err = ParseMosaicID("nem")
	require.EqualError(t, err, "malformed mosaic id 'nem'")
}

func TestMosaicLevy_Amount(t *testing.T) {
	levy := MosaicLevy{Kind: LevyAbsolute, Fee: 5}

	q, ok := levy.Amount(1_000)
	require.True(t, ok)
	require.Equal(t, Quantity(5), q)

	levy.Kind = LevyPercentile
	q, ok = levy.Amount(1_000_000)
	require.True(t, ok)
	require.Equal(t, Quantity(500), q)

	levy.Fee = 1 << 40
	q, ok = levy.Amount(1 << 40)
	require.False(t, ok)
	require.Equal(t, Quantity(MaxQuantity+1), q)

	levy.Kind = 0
	q, ok = levy.Amount(1_000)
	require.True(t, ok)
	require.Equal(t, Quantity(0), q)
}

func TestQuantityFromBig(t *testing.T) {
	q, ok := QuantityFromBig(big.NewInt(MaxQuantity))
	require.True(t, ok)
	require.Equal(t, Quantity(MaxQuantity), q)

	huge := new(big.Int).Lsh(big.NewInt(1), 64)

	q, ok = QuantityFromBig(huge)
	require.False(t, ok)
	require.Equal(t, Quantity(MaxQuantity+1), q)

	_, ok = QuantityFromBig(big.NewInt(-1))
	require.False(t, ok)
}

func TestMosaicDefinition_Equal(t *testing.T) {
	def := MosaicDefinition{
		ID:          MosaicID{Namespace: "foo", Name: "bar"},
		Description: "a",
		Levy:        &MosaicLevy{Kind: LevyAbsolute, Fee: 1},
	}

	other := def
	other.Levy = &MosaicLevy{Kind: LevyAbsolute, Fee: 1}
	require.True(t, def.Equal(other))

	other.Description = "b"
	require.False(t, def.Equal(other))
	require.True(t, def.IsEquivalent(other))

	other.Levy = nil
	require.False(t, def.IsEquivalent(other))

	other.Levy = def.Levy
	other.Properties.Transferable = true
	require.False(t, def.IsEquivalent(other))
}

func TestRemoteLinks_IsRemote(t *testing.T) {
	var links RemoteLinks
	require.False(t, links.IsRemote(100, 1440, false))

	_, ok := links.Current()
	require.False(t, ok)

	links = RemoteLinks{{Height: 100, Mode: LinkActivate, Role: HarvestingRemotely}}
	require.False(t, links.IsRemote(100, 1440, false))

	links = RemoteLinks{{Height: 100, Mode: LinkActivate, Role: RemoteHarvester}}
	require.True(t, links.IsRemote(5000, 1440, false))

	links = append(links, RemoteLink{Height: 200, Mode: LinkDeactivate, Role: RemoteHarvester})
	require.True(t, links.IsRemote(200+1439, 1440, false))
	require.False(t, links.IsRemote(200+1440, 1440, false))
	require.True(t, links.IsRemote(200+1440, 1440, true))

	require.Equal(t, "activate", LinkActivate.String())
	require.Equal(t, "deactivate", LinkDeactivate.String())
	require.Equal(t, "unknown", LinkMode(0).String())
}

func TestHash_Text(t *testing.T) {
	h := Hash{1, 2, 3}

	text, err := h.MarshalText()
	require.NoError(t, err)
	require.Equal(t, h.String(), string(text))
	require.Equal(t, "0x01020300", h.Short())

	var res Hash
	require.NoError(t, res.UnmarshalText(text))
	require.Equal(t, h, res)

	require.EqualError(t, res.UnmarshalText([]byte("abcd")), "invalid hash length 2")
	require.Error(t, res.UnmarshalText([]byte("zz")))
}

func TestTimeInstantOf(t *testing.T) {
	require.Equal(t, TimeInstant(0), TimeInstantOf(Epoch))
	require.Equal(t, TimeInstant(0), TimeInstantOf(Epoch.Add(-time.Hour)))
	require.Equal(t, TimeInstant(90), TimeInstantOf(Epoch.Add(90*time.Second+500*time.Millisecond)))
}

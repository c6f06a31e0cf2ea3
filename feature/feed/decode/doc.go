// Package decode streams the tobacco catalog feed into normalized records.
//
// The feed is an XML document shaped as
//
//	<TobaccoData>
//	  <Groups>
//	    <Group code="10" description="Cigarettes">
//	      <Articles>
//	        <Article code="P1" oldCode="" description="Red Box" price="12,50" disbarred="0">
//	          <Barcodes><Barcode value="5200000000001" quantity="1"/></Barcodes>
//	        </Article>
//	      </Articles>
//	    </Group>
//	  </Groups>
//	</TobaccoData>
//
// Every field may be given as an attribute or as a child element. A group's code
// and description precede its Articles; a header element after Articles is a
// DecodeError. Decoder walks
// the token stream, selects Group elements under Groups, and materializes one
// Article subtree at a time, so memory stays flat regardless of feed size.
//
// Normalization happens here and nowhere else: group code and description are
// copied onto each record, Barcode is always a list (empty when absent), and
// comma-decimal prices become integer minor units via ParsePrice.
package decode

// Package grid draws the ruled template onto a render surface.
//
// [Render] paints, in order (later draws land on top):
//
//  1. A white background over the whole surface
//  2. A 2px black border around the content rectangle
//  3. Light-gray 1px lines at every whole inch strictly inside the border
//  4. Tick marks and integer inch labels along the top and left edges
//  5. The height label, rotated 90° counter-clockwise, right of the content
//  6. The width label, centered beneath the content
//
// Interior lines stop at the last whole inch, so a template with a
// fractional width or height leaves its final partial cell unruled.
//
// Dimension labels use two fraction digits and an inch mark (5.00");
// ruler labels are bare integers.
package grid
